package viewmodel

import "time"

// EmojiEntry maps a destination substring to a display glyph.
type EmojiEntry struct {
	Match string
	Emoji string
}

// Options configures the Shaper. The public adapter in pkg/viewmodel builds
// them from functional options.
type Options struct {
	Clock         func() time.Time
	NotIncluded   []string
	InsuranceNote string
	PackageName   string
	Emoji         []EmojiEntry
	Site          Site
	OnIssue       func(Issue)
}

const (
	defaultEmoji         = "✈️"
	defaultPackageName   = "Premium Package"
	defaultInsuranceNote = "Highly recommended! Typical cost: ~10% of package. Your advisor will provide a quote with your booking confirmation."
)

// DefaultNotIncluded lists the exclusions shown when none are configured.
var DefaultNotIncluded = []string{
	"Meals (except where noted in tours)",
	"Attraction entry fees not listed",
	"Personal expenses and souvenirs",
	"Gratuities",
	"Travel insurance (quoted separately)",
	"Passport fees if needed",
}

// DefaultEmoji is matched in order against the lower-cased destination.
var DefaultEmoji = []EmojiEntry{
	{Match: "Portugal", Emoji: "🇵🇹"},
	{Match: "Greece", Emoji: "🇬🇷"},
	{Match: "Greek Islands", Emoji: "🇬🇷"},
	{Match: "Italy", Emoji: "🇮🇹"},
	{Match: "France", Emoji: "🇫🇷"},
	{Match: "Spain", Emoji: "🇪🇸"},
	{Match: "Caribbean", Emoji: "🏝️"},
	{Match: "Bahamas", Emoji: "🇧🇸"},
	{Match: "Mexico", Emoji: "🇲🇽"},
	{Match: "Hawaii", Emoji: "🌺"},
	{Match: "Alaska", Emoji: "🏔️"},
}

func defaultOptions() Options {
	return Options{
		Clock:         time.Now,
		NotIncluded:   DefaultNotIncluded,
		InsuranceNote: defaultInsuranceNote,
		PackageName:   defaultPackageName,
		Emoji:         DefaultEmoji,
	}
}

func mergeOptions(options Options) Options {
	opts := defaultOptions()
	if options.Clock != nil {
		opts.Clock = options.Clock
	}
	if options.NotIncluded != nil {
		opts.NotIncluded = options.NotIncluded
	}
	if options.InsuranceNote != "" {
		opts.InsuranceNote = options.InsuranceNote
	}
	if options.PackageName != "" {
		opts.PackageName = options.PackageName
	}
	if len(options.Emoji) > 0 {
		opts.Emoji = options.Emoji
	}
	opts.Site = options.Site
	opts.OnIssue = options.OnIssue
	return opts
}
