package viewmodel

import (
	"time"

	internalviewmodel "github.com/goliatone/go-proposal/internal/viewmodel"
)

// Shaper converts decoded trip documents into view models.
type Shaper interface {
	Shape(raw any) (ViewModel, error)
}

// Option configures the shaper behaviour.
type Option func(*internalviewmodel.Options)

// WithClock overrides the clock used for the generated date.
func WithClock(clock func() time.Time) Option {
	return func(opts *internalviewmodel.Options) {
		opts.Clock = clock
	}
}

// WithNotIncluded replaces the default exclusion list.
func WithNotIncluded(items ...string) Option {
	return func(opts *internalviewmodel.Options) {
		opts.NotIncluded = append([]string{}, items...)
	}
}

// WithInsuranceNote replaces the default travel insurance note.
func WithInsuranceNote(note string) Option {
	return func(opts *internalviewmodel.Options) {
		opts.InsuranceNote = note
	}
}

// WithPackageName replaces the default pricing package label.
func WithPackageName(name string) Option {
	return func(opts *internalviewmodel.Options) {
		opts.PackageName = name
	}
}

// WithEmojiTable replaces the destination to emoji table. Entries are matched
// in order.
func WithEmojiTable(entries []EmojiEntry) Option {
	return func(opts *internalviewmodel.Options) {
		opts.Emoji = entries
	}
}

// WithSite embeds presentation markup and configuration in every view model.
func WithSite(site Site) Option {
	return func(opts *internalviewmodel.Options) {
		opts.Site = site
	}
}

// WithIssueReporter receives optional sections dropped for their shape.
func WithIssueReporter(fn func(Issue)) Option {
	return func(opts *internalviewmodel.Options) {
		opts.OnIssue = fn
	}
}

// NewShaper returns a Shaper backed by the internal implementation.
func NewShaper(options ...Option) Shaper {
	cfg := internalviewmodel.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return internalviewmodel.New(cfg)
}
