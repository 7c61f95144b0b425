package presentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-proposal/pkg/engagement"
	"github.com/goliatone/go-proposal/pkg/logger"
)

var (
	// ErrUnknownProvider is returned when a capability names a provider
	// that has no strategy.
	ErrUnknownProvider = errors.New("presentation: unknown provider")
	// ErrInvalidConfig is returned when a provider is missing a setting it
	// needs.
	ErrInvalidConfig = errors.New("presentation: invalid config")
)

type resolveOptions struct {
	recorder engagement.Recorder
	logger   *log.Logger
}

// Option configures Resolve.
type Option func(*resolveOptions)

// WithRecorder supplies the recorder used by the "store" analytics provider.
func WithRecorder(r engagement.Recorder) Option {
	return func(o *resolveOptions) {
		o.recorder = r
	}
}

// WithLogger sets the logger used by the "log" analytics provider.
func WithLogger(l *log.Logger) Option {
	return func(o *resolveOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Site is a resolved configuration ready to be embedded in a page.
type Site struct {
	config    Config
	analytics Analytics
	chat      Chat
	forms     Forms
	body      string
}

// Resolve picks one strategy per capability.
func Resolve(cfg Config, opts ...Option) (*Site, error) {
	o := resolveOptions{logger: logger.L()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	analytics, err := resolveAnalytics(cfg.Analytics, o)
	if err != nil {
		return nil, err
	}
	chat, err := resolveChat(cfg.Chat)
	if err != nil {
		return nil, err
	}
	forms, err := resolveForms(cfg.Forms, cfg.Agent)
	if err != nil {
		return nil, err
	}
	body, err := chat.Body()
	if err != nil {
		return nil, err
	}

	return &Site{
		config:    cfg,
		analytics: analytics,
		chat:      chat,
		forms:     forms,
		body:      body,
	}, nil
}

// Config returns the configuration the site was resolved from.
func (s *Site) Config() Config { return s.config }

// Analytics returns the analytics strategy.
func (s *Site) Analytics() Analytics { return s.analytics }

// Chat returns the chat strategy.
func (s *Site) Chat() Chat { return s.chat }

// Forms returns the forms strategy.
func (s *Site) Forms() Forms { return s.forms }

// ConfigJSON returns the SITE_CONFIG payload. The encoder escapes <, > and
// & so the result is safe inside a script element.
func (s *Site) ConfigJSON() (string, error) {
	data, err := json.Marshal(s.config)
	if err != nil {
		return "", fmt.Errorf("presentation: encode site config: %w", err)
	}
	return string(data), nil
}

// Head returns the SITE_CONFIG script followed by the analytics markup.
func (s *Site) Head() string {
	var b strings.Builder
	if cfg, err := s.ConfigJSON(); err == nil {
		b.WriteString("<script>window.SITE_CONFIG = ")
		b.WriteString(cfg)
		b.WriteString(";</script>")
	}
	if head := s.analytics.Head(); head != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(head)
	}
	return b.String()
}

// Body returns the chat widget markup, or "".
func (s *Site) Body() string { return s.body }

// ScheduleURL returns the agent's schedule link prefilled with the
// visitor's name and email (when valid) and a note naming the trip.
func (s *Site) ScheduleURL(name, email, tripFilename string) (string, error) {
	base := s.config.Agent.ScheduleURL
	if base == "" {
		return "#", nil
	}
	return scheduleURL(base, name, email, tripFilename)
}
