package engagement_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/engagement"
	"github.com/goliatone/go-proposal/pkg/logger"
)

type memoryRecorder struct {
	mu       sync.Mutex
	events   []engagement.Event
	feedback []engagement.Feedback
}

func (m *memoryRecorder) Record(_ context.Context, ev engagement.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memoryRecorder) SaveFeedback(_ context.Context, fb engagement.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, fb)
	return nil
}

func newHandler(rec *memoryRecorder) *engagement.Handler {
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return engagement.NewHandler(rec,
		engagement.WithFeedbackSink(rec),
		engagement.WithLogger(logger.Discard()),
		engagement.WithClock(func() time.Time { return fixed }),
	)
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Events(t *testing.T) {
	rec := &memoryRecorder{}
	h := newHandler(rec)

	rr := post(h, "/events", `{"type":"page_view","sessionId":"s-1","page":"/p","tripFilename":"p.html"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = post(h, "/events", `[{"type":"click","sessionId":"s-1","action":"ask_question"},{"type":"scroll_depth","sessionId":"s-1","pct":25}]`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for batch, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"accepted":2`) {
		t.Fatalf("expected accepted count in body, got %s", rr.Body.String())
	}

	if len(rec.events) != 3 {
		t.Fatalf("expected 3 recorded events, got %d", len(rec.events))
	}
	want := engagement.Event{
		Type:         engagement.KindPageView,
		SessionID:    "s-1",
		Page:         "/p",
		TripFilename: "p.html",
		Timestamp:    time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, rec.events[0]); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
	if got := rec.events[2].Props["pct"]; got != 25.0 {
		t.Fatalf("expected spread pct prop, got %#v", got)
	}
}

func TestHandler_EventsRejects(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "empty batch", body: `[]`, status: http.StatusBadRequest},
		{name: "unknown type", body: `{"type":"hover","sessionId":"s"}`, status: http.StatusUnprocessableEntity},
		{name: "missing session", body: `{"type":"click"}`, status: http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &memoryRecorder{}
			rr := post(newHandler(rec), "/events", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			if len(rec.events) != 0 {
				t.Fatalf("expected nothing recorded, got %d", len(rec.events))
			}
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newHandler(&memoryRecorder{})
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHandler_Feedback(t *testing.T) {
	rec := &memoryRecorder{}
	h := newHandler(rec)

	rr := post(h, "/feedback", `{"type":"question","tripFilename":"p.html","message":"  Is the ferry included?  ","email":"ana@example.com"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = post(h, "/feedback", `{"type":"question","message":"spam spam","hp":"filled"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected honeypot to look accepted, got %d", rr.Code)
	}
	rr = post(h, "/feedback", `{"type":"question","message":"hi"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short message, got %d", rr.Code)
	}

	want := []engagement.Feedback{{
		Type:         engagement.FeedbackQuestion,
		TripFilename: "p.html",
		Message:      "Is the ferry included?",
		Email:        "ana@example.com",
	}}
	if diff := cmp.Diff(want, rec.feedback); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_FeedbackDisabled(t *testing.T) {
	h := engagement.NewHandler(&memoryRecorder{}, engagement.WithLogger(logger.Discard()))
	rr := post(h, "/feedback", `{"type":"exit_feedback"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
