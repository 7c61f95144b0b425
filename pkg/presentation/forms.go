package presentation

import (
	"fmt"
	"net/url"
	"strings"
)

// Forms providers.
const (
	FormsAuto      = "auto"
	FormsFormspree = "formspree"
	FormsJSON      = "json"
	FormsMailto    = "mailto"
)

// FallbackEmail receives mailto submissions when no agent email is set.
const FallbackEmail = "info@example.com"

// SubmissionKind selects the endpoint a submission goes to.
type SubmissionKind string

const (
	SubmissionQuestion SubmissionKind = "question"
	SubmissionFeedback SubmissionKind = "feedback"
)

// Encoding is how a submission body is sent.
type Encoding string

const (
	EncodingJSON     Encoding = "json"
	EncodingFormData Encoding = "form"
	EncodingMailto   Encoding = "mailto"
)

// Payload is the visitor-facing content of a submission.
type Payload struct {
	TripFilename string
	SectionID    string
	Title        string
	PageURL      string
	Message      string
}

// Submission describes how one question or feedback is delivered. For
// EncodingMailto only URL is set and the page navigates to it.
type Submission struct {
	Encoding Encoding
	Method   string
	URL      string
	Headers  map[string]string
}

// Forms is the resolved forms strategy.
type Forms struct {
	provider string
	question string
	feedback string
	email    string
}

// Provider returns the configured provider name.
func (f Forms) Provider() string { return f.provider }

// Endpoint returns the endpoint configured for kind, or "".
func (f Forms) Endpoint(kind SubmissionKind) string {
	if kind == SubmissionFeedback {
		return f.feedback
	}
	return f.question
}

// Submission returns how a submission of kind should be sent. Without an
// endpoint, or with the mailto provider, it falls back to a mailto link
// addressed to the agent.
func (f Forms) Submission(kind SubmissionKind, p Payload) Submission {
	endpoint := f.Endpoint(kind)
	if endpoint == "" || f.provider == FormsMailto {
		return Submission{Encoding: EncodingMailto, URL: f.mailto(kind, p)}
	}
	if f.provider == FormsFormspree {
		return Submission{
			Encoding: EncodingFormData,
			Method:   "POST",
			URL:      endpoint,
			Headers:  map[string]string{"Accept": "application/json"},
		}
	}
	return Submission{
		Encoding: EncodingJSON,
		Method:   "POST",
		URL:      endpoint,
		Headers:  map[string]string{"Content-Type": "application/json"},
	}
}

// Subject returns the subject line used for kind.
func Subject(kind SubmissionKind, p Payload) string {
	if kind == SubmissionFeedback {
		return "[Exit feedback] " + p.TripFilename
	}
	return fmt.Sprintf("[Question] %s — %s", p.TripFilename, titleOr(p.Title))
}

func (f Forms) mailto(kind SubmissionKind, p Payload) string {
	to := f.email
	if to == "" {
		to = FallbackEmail
	}

	var subject, body string
	if kind == SubmissionFeedback {
		subject = Subject(kind, p)
		body = fmt.Sprintf("%s\n%s", p.Message, p.PageURL)
	} else {
		subject = fmt.Sprintf("Question about %s — %s", titleOr(p.Title), p.TripFilename)
		body = fmt.Sprintf("Hi, I have a question about:\n%s\n%s\n\nDetails:", p.Title, p.PageURL)
	}
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, encodeComponent(subject), encodeComponent(body))
}

func titleOr(title string) string {
	if title == "" {
		return "this section"
	}
	return title
}

// encodeComponent percent-encodes s the way browsers encode URI
// components: spaces become %20, not "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func resolveForms(cfg FormsConfig, agent Agent) (Forms, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "":
		provider = FormsAuto
	case FormsAuto, FormsFormspree, FormsJSON, FormsMailto:
	default:
		return Forms{}, fmt.Errorf("%w: forms provider %q", ErrUnknownProvider, cfg.Provider)
	}
	for _, endpoint := range []string{cfg.QuestionEndpoint, cfg.FeedbackEndpoint} {
		if endpoint == "" {
			continue
		}
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return Forms{}, fmt.Errorf("%w: forms endpoint %q is not an http(s) URL", ErrInvalidConfig, endpoint)
		}
	}
	return Forms{
		provider: provider,
		question: cfg.QuestionEndpoint,
		feedback: cfg.FeedbackEndpoint,
		email:    agent.Email,
	}, nil
}
