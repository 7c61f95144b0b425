package engagement

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-proposal/pkg/identity"
)

// Kind identifies an engagement event.
type Kind string

const (
	KindPageView    Kind = "page_view"
	KindSectionView Kind = "section_view"
	KindScrollDepth Kind = "scroll_depth"
	KindClick       Kind = "click"
)

// Kinds lists the accepted event kinds.
func Kinds() []Kind {
	return []Kind{KindPageView, KindSectionView, KindScrollDepth, KindClick}
}

// Valid reports whether k is one of the accepted kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

var (
	// ErrInvalidEvent is returned for envelopes that fail validation.
	ErrInvalidEvent = errors.New("engagement: invalid event")
	// ErrInvalidFeedback is returned for feedback that fails validation.
	ErrInvalidFeedback = errors.New("engagement: invalid feedback")
)

// Event is the envelope sent for every tracked interaction. Any field beyond
// the envelope keys travels in Props.
type Event struct {
	Type         Kind           `json:"type"`
	SessionID    string         `json:"sessionId"`
	Page         string         `json:"page"`
	TripFilename string         `json:"tripFilename"`
	Timestamp    time.Time      `json:"ts"`
	Props        map[string]any `json:"props,omitempty"`
}

// NewEvent builds an envelope stamped with the current UTC time.
func NewEvent(kind Kind, sessionID, page, tripFilename string, props map[string]any) Event {
	return Event{
		Type:         kind,
		SessionID:    sessionID,
		Page:         page,
		TripFilename: tripFilename,
		Timestamp:    time.Now().UTC(),
		Props:        props,
	}
}

// Validate checks the envelope fields every event must carry.
func (e Event) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if strings.TrimSpace(e.SessionID) == "" {
		return fmt.Errorf("%w: sessionId is required", ErrInvalidEvent)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: ts is required", ErrInvalidEvent)
	}
	return nil
}

var envelopeKeys = map[string]bool{
	"type":         true,
	"sessionId":    true,
	"page":         true,
	"tripFilename": true,
	"ts":           true,
	"props":        true,
}

// UnmarshalJSON accepts both a nested "props" object and properties spread
// next to the envelope keys, which is how pages send them.
func (e *Event) UnmarshalJSON(data []byte) error {
	type envelope Event
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if envelopeKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("engagement: decode prop %q: %w", key, err)
		}
		if env.Props == nil {
			env.Props = make(map[string]any)
		}
		if _, exists := env.Props[key]; !exists {
			env.Props[key] = v
		}
	}

	*e = Event(env)
	return nil
}

// FeedbackType distinguishes questions from exit feedback.
type FeedbackType string

const (
	FeedbackQuestion FeedbackType = "question"
	FeedbackExit     FeedbackType = "exit_feedback"
)

// Feedback is a visitor submission from the ask or exit-intent forms.
type Feedback struct {
	Type         FeedbackType `json:"type"`
	TripFilename string       `json:"tripFilename"`
	SectionID    string       `json:"sectionId,omitempty"`
	Title        string       `json:"title,omitempty"`
	PageURL      string       `json:"pageUrl,omitempty"`
	Name         string       `json:"name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Message      string       `json:"message,omitempty"`
	Choice       string       `json:"choice,omitempty"`
	Note         string       `json:"note,omitempty"`
	TTCMs        int64        `json:"ttcMs,omitempty"`
	Honeypot     string       `json:"hp,omitempty"`
	Subject      string       `json:"_subject,omitempty"`
}

// MaxMessageLength bounds question and note bodies.
const MaxMessageLength = 1000

// Validate applies the rules of the ask and exit forms.
func (f Feedback) Validate() error {
	switch f.Type {
	case FeedbackQuestion:
		if len(strings.TrimSpace(f.Message)) < 3 {
			return fmt.Errorf("%w: question message is too short", ErrInvalidFeedback)
		}
	case FeedbackExit:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFeedback, f.Type)
	}
	if email := strings.TrimSpace(f.Email); email != "" && !identity.ValidEmail(email) {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidFeedback, email)
	}
	return nil
}

// Spam reports whether the honeypot field was filled in.
func (f Feedback) Spam() bool {
	return strings.TrimSpace(f.Honeypot) != ""
}

// Trimmed returns a copy with whitespace trimmed and long bodies cut.
func (f Feedback) Trimmed() Feedback {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = truncate(strings.TrimSpace(f.Message), MaxMessageLength)
	f.Note = truncate(strings.TrimSpace(f.Note), MaxMessageLength)
	return f
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
