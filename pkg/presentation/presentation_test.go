package presentation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/engagement"
	"github.com/goliatone/go-proposal/pkg/logger"
	"github.com/goliatone/go-proposal/pkg/presentation"
)

func TestMerge_DeepMergesNestedObjects(t *testing.T) {
	base := presentation.DefaultConfig("trips.example.com")

	got, err := presentation.Merge(base, map[string]any{
		"agent":    map[string]any{"email": "kim@example.com"},
		"features": map[string]any{"exitIntent": false},
		"chat":     map[string]any{"enabled": true, "websiteId": "abc"},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	want := base
	want.Agent.Email = "kim@example.com"
	want.Features.ExitIntent = false
	want.Chat.Enabled = true
	want.Chat.WebsiteID = "abc"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Empty(t *testing.T) {
	base := presentation.DefaultConfig("x.test")
	got, err := presentation.Merge(base, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if diff := cmp.Diff(base, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Defaults(t *testing.T) {
	site, err := presentation.Resolve(presentation.DefaultConfig("trips.example.com"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if site.Analytics().Provider() != presentation.AnalyticsPlausible {
		t.Fatalf("expected plausible analytics, got %s", site.Analytics().Provider())
	}
	if site.Chat().Provider() != presentation.ChatNone {
		t.Fatalf("expected chat disabled, got %s", site.Chat().Provider())
	}
	if site.Forms().Provider() != presentation.FormsAuto {
		t.Fatalf("expected auto forms, got %s", site.Forms().Provider())
	}

	head := site.Head()
	if !strings.HasPrefix(head, "<script>window.SITE_CONFIG = {") {
		t.Fatalf("expected SITE_CONFIG script first, got %q", head)
	}
	if !strings.Contains(head, `data-domain="trips.example.com"`) {
		t.Fatalf("expected plausible tag, got %q", head)
	}
	if site.Body() != "" {
		t.Fatalf("expected empty body, got %q", site.Body())
	}
}

func TestDefaultConfig_NoDomainDisablesAnalytics(t *testing.T) {
	site, err := presentation.Resolve(presentation.DefaultConfig(""))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if site.Analytics().Provider() != presentation.AnalyticsNone {
		t.Fatalf("expected analytics none, got %s", site.Analytics().Provider())
	}
	if strings.Contains(site.Head(), "plausible") {
		t.Fatalf("expected no tracker in head, got %q", site.Head())
	}
}

func TestResolve_UnknownProviders(t *testing.T) {
	cases := map[string]func(*presentation.Config){
		"analytics": func(c *presentation.Config) { c.Analytics.Provider = "segment" },
		"chat":      func(c *presentation.Config) { c.Chat.Provider = "intercom" },
		"forms":     func(c *presentation.Config) { c.Forms.Provider = "netlify" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := presentation.DefaultConfig("x.test")
			mutate(&cfg)
			if _, err := presentation.Resolve(cfg); !errors.Is(err, presentation.ErrUnknownProvider) {
				t.Fatalf("expected ErrUnknownProvider, got %v", err)
			}
		})
	}
}

func TestResolve_InvalidConfig(t *testing.T) {
	cases := map[string]func(*presentation.Config){
		"store without recorder":   func(c *presentation.Config) { c.Analytics.Provider = presentation.AnalyticsStore },
		"plausible without domain": func(c *presentation.Config) { c.Analytics.Domain = "" },
		"relative endpoint":        func(c *presentation.Config) { c.Forms.QuestionEndpoint = "/ask" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := presentation.DefaultConfig("x.test")
			mutate(&cfg)
			if _, err := presentation.Resolve(cfg); !errors.Is(err, presentation.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestResolve_StoreAnalyticsRecords(t *testing.T) {
	var got []engagement.Event
	rec := engagement.RecorderFunc(func(_ context.Context, ev engagement.Event) error {
		got = append(got, ev)
		return nil
	})

	cfg := presentation.DefaultConfig("x.test")
	cfg.Analytics.Provider = presentation.AnalyticsStore
	cfg.Analytics.Endpoint = "https://x.test/events"

	site, err := presentation.Resolve(cfg, presentation.WithRecorder(rec), presentation.WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(site.Head(), `<meta name="vf:events-endpoint" content="https://x.test/events">`) {
		t.Fatalf("expected endpoint meta, got %q", site.Head())
	}

	ev := engagement.NewEvent(engagement.KindPageView, "s-1", "/", "trip.html", nil)
	if err := site.Analytics().Record(context.Background(), ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "s-1" {
		t.Fatalf("expected event forwarded to recorder, got %#v", got)
	}
}

func TestResolve_CrispChat(t *testing.T) {
	cfg := presentation.DefaultConfig("x.test")
	cfg.Chat = presentation.ChatConfig{Enabled: true, Provider: presentation.ChatCrisp, WebsiteID: "site-123"}

	site, err := presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := `<script>window.$crisp=[];window.CRISP_WEBSITE_ID="site-123";</script><script src="https://client.crisp.chat/l.js" async></script>`
	if diff := cmp.Diff(want, site.Body()); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	cfg.Chat.WebsiteID = ""
	site, err = presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if site.Chat().Provider() != presentation.ChatNone {
		t.Fatalf("expected crisp without website id to resolve to none")
	}
}

func TestSite_ConfigJSONIsScriptSafe(t *testing.T) {
	cfg := presentation.DefaultConfig("x.test")
	cfg.Agent.MessengerURL = "https://m.me/</script><script>alert(1)"

	site, err := presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	payload, err := site.ConfigJSON()
	if err != nil {
		t.Fatalf("config json: %v", err)
	}
	if strings.Contains(payload, "</script>") {
		t.Fatalf("payload must not close the script element: %s", payload)
	}
	if !strings.Contains(payload, `"analytics":{"provider":"plausible","domain":"x.test"}`) {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestForms_Submission(t *testing.T) {
	payload := presentation.Payload{
		TripFilename: "portugal.html",
		SectionID:    "lodging",
		Title:        "Lodging",
		PageURL:      "https://x.test/portugal.html#lodging",
	}

	cfg := presentation.DefaultConfig("x.test")
	cfg.Agent.Email = "kim@example.com"
	cfg.Forms.QuestionEndpoint = "https://formspree.io/f/abc"

	cases := []struct {
		name     string
		provider string
		kind     presentation.SubmissionKind
		want     presentation.Submission
	}{
		{
			name:     "auto posts json",
			provider: presentation.FormsAuto,
			kind:     presentation.SubmissionQuestion,
			want: presentation.Submission{
				Encoding: presentation.EncodingJSON,
				Method:   "POST",
				URL:      "https://formspree.io/f/abc",
				Headers:  map[string]string{"Content-Type": "application/json"},
			},
		},
		{
			name:     "formspree posts form data",
			provider: presentation.FormsFormspree,
			kind:     presentation.SubmissionQuestion,
			want: presentation.Submission{
				Encoding: presentation.EncodingFormData,
				Method:   "POST",
				URL:      "https://formspree.io/f/abc",
				Headers:  map[string]string{"Accept": "application/json"},
			},
		},
		{
			name:     "missing endpoint falls back to mailto",
			provider: presentation.FormsAuto,
			kind:     presentation.SubmissionFeedback,
			want: presentation.Submission{
				Encoding: presentation.EncodingMailto,
				URL:      "mailto:kim@example.com?subject=%5BExit%20feedback%5D%20portugal.html&body=%0Ahttps%3A%2F%2Fx.test%2Fportugal.html%23lodging",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.Forms.Provider = tc.provider
			site, err := presentation.Resolve(c)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			got := site.Forms().Submission(tc.kind, payload)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("submission mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForms_MailtoQuestion(t *testing.T) {
	cfg := presentation.DefaultConfig("x.test")
	cfg.Forms.Provider = presentation.FormsMailto
	cfg.Forms.QuestionEndpoint = "https://formspree.io/f/abc"

	site, err := presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := site.Forms().Submission(presentation.SubmissionQuestion, presentation.Payload{TripFilename: "t.html", PageURL: "https://x.test/t.html"})

	want := "mailto:info@example.com?subject=Question%20about%20this%20section%20%E2%80%94%20t.html" +
		"&body=Hi%2C%20I%20have%20a%20question%20about%3A%0A%0Ahttps%3A%2F%2Fx.test%2Ft.html%0A%0ADetails%3A"
	if got.Encoding != presentation.EncodingMailto {
		t.Fatalf("expected mailto encoding, got %s", got.Encoding)
	}
	if diff := cmp.Diff(want, got.URL); diff != "" {
		t.Fatalf("mailto mismatch (-want +got):\n%s", diff)
	}
}

func TestSite_ScheduleURL(t *testing.T) {
	cfg := presentation.DefaultConfig("x.test")
	site, err := presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, _ := site.ScheduleURL("Ana", "ana@example.com", "t.html"); got != "#" {
		t.Fatalf("expected # without schedule url, got %q", got)
	}

	cfg.Agent.ScheduleURL = "https://cal.example.com/kim?src=proposal"
	site, err = presentation.Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, err := site.ScheduleURL(" Ana ", "not-an-email", "t.html")
	if err != nil {
		t.Fatalf("schedule url: %v", err)
	}
	want := "https://cal.example.com/kim?name=Ana&notes=Trip%3At.html&src=proposal"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
