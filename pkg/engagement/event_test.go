package engagement_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/engagement"
)

func TestEvent_UnmarshalSpreadProps(t *testing.T) {
	payload := `{
		"type": "section_view",
		"sessionId": "s-1",
		"page": "/trips/portugal.html",
		"tripFilename": "portugal.html",
		"ts": "2025-05-01T10:00:00Z",
		"sectionId": "lodging",
		"title": "Where you'll stay"
	}`

	var ev engagement.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := engagement.Event{
		Type:         engagement.KindSectionView,
		SessionID:    "s-1",
		Page:         "/trips/portugal.html",
		TripFilename: "portugal.html",
		Timestamp:    time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		Props:        map[string]any{"sectionId": "lodging", "title": "Where you'll stay"},
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestEvent_UnmarshalNestedPropsWin(t *testing.T) {
	payload := `{"type":"click","sessionId":"s","ts":"2025-05-01T10:00:00Z","props":{"action":"ask_question"},"action":"ignored","label":"Flights"}`

	var ev engagement.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{"action": "ask_question", "label": "Flights"}
	if diff := cmp.Diff(want, ev.Props); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestEvent_Validate(t *testing.T) {
	ok := engagement.NewEvent(engagement.KindPageView, "s-1", "/", "trip.html", nil)
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	cases := map[string]engagement.Event{
		"unknown type": {Type: "hover", SessionID: "s", Timestamp: time.Now()},
		"no session":   {Type: engagement.KindClick, Timestamp: time.Now()},
		"no timestamp": {Type: engagement.KindClick, SessionID: "s"},
	}
	for name, ev := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ev.Validate(); !errors.Is(err, engagement.ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
		})
	}
}

func TestFeedback_Validate(t *testing.T) {
	cases := []struct {
		name    string
		fb      engagement.Feedback
		wantErr bool
	}{
		{name: "question", fb: engagement.Feedback{Type: engagement.FeedbackQuestion, Message: "Is breakfast included?"}},
		{name: "short question", fb: engagement.Feedback{Type: engagement.FeedbackQuestion, Message: " ok "}, wantErr: true},
		{name: "bad email", fb: engagement.Feedback{Type: engagement.FeedbackQuestion, Message: "Hello there", Email: "nope"}, wantErr: true},
		{name: "exit without note", fb: engagement.Feedback{Type: engagement.FeedbackExit, Choice: "looking"}},
		{name: "unknown type", fb: engagement.Feedback{Type: "complaint"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fb.Validate()
			if tc.wantErr && !errors.Is(err, engagement.ErrInvalidFeedback) {
				t.Fatalf("expected ErrInvalidFeedback, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScrollTracker_MilestonesFireOnce(t *testing.T) {
	tracker := engagement.NewScrollTracker()

	steps := []struct {
		pct  int
		want []int
	}{
		{pct: 10, want: nil},
		{pct: 30, want: []int{25}},
		{pct: 20, want: nil},
		{pct: 80, want: []int{50, 75}},
		{pct: 80, want: nil},
		{pct: 140, want: []int{100}},
		{pct: 100, want: nil},
	}
	for i, step := range steps {
		got := tracker.Observe(step.pct)
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Fatalf("step %d (%d%%) mismatch (-want +got):\n%s", i, step.pct, diff)
		}
	}
	if tracker.Max() != 100 {
		t.Fatalf("expected max 100, got %d", tracker.Max())
	}
}

func TestScrollTracker_Events(t *testing.T) {
	tracker := engagement.NewScrollTracker()
	base := engagement.NewEvent(engagement.KindPageView, "s-1", "/p", "p.html", nil)

	events := tracker.Events(base, 55)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for i, mark := range []int{25, 50} {
		ev := events[i]
		if ev.Type != engagement.KindScrollDepth {
			t.Fatalf("event %d: expected scroll_depth, got %s", i, ev.Type)
		}
		want := map[string]any{"pct": mark, "maxPct": 55}
		if diff := cmp.Diff(want, ev.Props); diff != "" {
			t.Fatalf("event %d props mismatch (-want +got):\n%s", i, diff)
		}
	}
	if base.Props != nil {
		t.Fatalf("base event was mutated")
	}
}

func TestScrollPercent(t *testing.T) {
	cases := []struct {
		top, viewport, doc float64
		want               int
	}{
		{0, 800, 3200, 25},
		{1200, 800, 3200, 63},
		{3000, 800, 3200, 100},
		{0, 800, 0, 100},
	}
	for _, tc := range cases {
		if got := engagement.ScrollPercent(tc.top, tc.viewport, tc.doc); got != tc.want {
			t.Fatalf("ScrollPercent(%v, %v, %v) = %d, want %d", tc.top, tc.viewport, tc.doc, got, tc.want)
		}
	}
}
