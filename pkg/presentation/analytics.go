package presentation

import (
	"context"
	"fmt"
	"html"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-proposal/pkg/engagement"
)

// Analytics providers.
const (
	AnalyticsPlausible = "plausible"
	AnalyticsLog       = "log"
	AnalyticsStore     = "store"
	AnalyticsNone      = "none"
)

// PlausibleScript is the hosted plausible tracker.
const PlausibleScript = "https://plausible.io/js/script.js"

// Analytics is a resolved analytics strategy. Every strategy is also an
// engagement.Recorder so server-side intake can route events through it.
type Analytics interface {
	engagement.Recorder
	Provider() string
	// Head returns markup to place in the document head, if any.
	Head() string
}

type plausibleAnalytics struct {
	domain string
}

func (plausibleAnalytics) Provider() string { return AnalyticsPlausible }

func (a plausibleAnalytics) Head() string {
	return fmt.Sprintf(`<script defer data-domain="%s" src="%s"></script>`,
		html.EscapeString(a.domain), PlausibleScript)
}

// Record is a no-op: plausible collects events in the browser.
func (plausibleAnalytics) Record(context.Context, engagement.Event) error { return nil }

type logAnalytics struct {
	logger *log.Logger
}

func (logAnalytics) Provider() string { return AnalyticsLog }
func (logAnalytics) Head() string     { return "" }

func (a logAnalytics) Record(_ context.Context, ev engagement.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	a.logger.Debug("engagement event",
		"type", ev.Type,
		"session", ev.SessionID,
		"page", ev.Page,
		"trip", ev.TripFilename,
		"props", ev.Props,
	)
	return nil
}

type storeAnalytics struct {
	recorder engagement.Recorder
	endpoint string
}

func (storeAnalytics) Provider() string { return AnalyticsStore }

func (a storeAnalytics) Head() string {
	if a.endpoint == "" {
		return ""
	}
	return fmt.Sprintf(`<meta name="vf:events-endpoint" content="%s">`, html.EscapeString(a.endpoint))
}

func (a storeAnalytics) Record(ctx context.Context, ev engagement.Event) error {
	return a.recorder.Record(ctx, ev)
}

type noAnalytics struct{}

func (noAnalytics) Provider() string                               { return AnalyticsNone }
func (noAnalytics) Head() string                                   { return "" }
func (noAnalytics) Record(context.Context, engagement.Event) error { return nil }

func resolveAnalytics(cfg AnalyticsConfig, o resolveOptions) (Analytics, error) {
	switch cfg.Provider {
	case AnalyticsPlausible:
		if cfg.Domain == "" {
			return nil, fmt.Errorf("%w: plausible analytics needs a domain", ErrInvalidConfig)
		}
		return plausibleAnalytics{domain: cfg.Domain}, nil
	case AnalyticsLog:
		return logAnalytics{logger: o.logger}, nil
	case AnalyticsStore:
		if o.recorder == nil {
			return nil, fmt.Errorf("%w: store analytics needs a recorder", ErrInvalidConfig)
		}
		return storeAnalytics{recorder: o.recorder, endpoint: cfg.Endpoint}, nil
	case AnalyticsNone, "":
		return noAnalytics{}, nil
	default:
		return nil, fmt.Errorf("%w: analytics provider %q", ErrUnknownProvider, cfg.Provider)
	}
}
