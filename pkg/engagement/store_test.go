package engagement_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/engagement"
	"github.com/goliatone/go-proposal/pkg/logger"
)

func openStore(t *testing.T) *engagement.Store {
	t.Helper()
	store, err := engagement.OpenStore(engagement.StoreConfig{
		Path:   filepath.Join(t.TempDir(), "events.db"),
		Logger: logger.Discard(),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndQuery(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	events := []engagement.Event{
		{Type: engagement.KindPageView, SessionID: "s-1", Page: "/p", TripFilename: "portugal.html", Timestamp: ts},
		{Type: engagement.KindScrollDepth, SessionID: "s-1", Page: "/p", TripFilename: "portugal.html", Timestamp: ts.Add(time.Second), Props: map[string]any{"pct": 25.0}},
		{Type: engagement.KindPageView, SessionID: "s-2", Page: "/q", TripFilename: "japan.html", Timestamp: ts.Add(2 * time.Second)},
	}
	for _, ev := range events {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := store.Events(ctx, engagement.Filter{TripFilename: "portugal.html"})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if diff := cmp.Diff(events[:2], got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	counts, err := store.Counts(ctx, "portugal.html")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	wantCounts := map[engagement.Kind]int64{
		engagement.KindPageView:    1,
		engagement.KindScrollDepth: 1,
	}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RecordRejectsInvalid(t *testing.T) {
	store := openStore(t)
	err := store.Record(context.Background(), engagement.Event{Type: "hover", SessionID: "s", Timestamp: time.Now()})
	if !errors.Is(err, engagement.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestStore_Feedback(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	question := engagement.Feedback{
		Type:         engagement.FeedbackQuestion,
		TripFilename: "portugal.html",
		SectionID:    "flights",
		Title:        "Flights",
		Message:      "  Can we upgrade the return leg?  ",
		Email:        "ana@example.com",
	}
	if err := store.SaveFeedback(ctx, question); err != nil {
		t.Fatalf("save: %v", err)
	}
	spam := engagement.Feedback{Type: engagement.FeedbackQuestion, TripFilename: "portugal.html", Message: "buy now", Honeypot: "x"}
	if err := store.SaveFeedback(ctx, spam); err != nil {
		t.Fatalf("spam should be dropped silently: %v", err)
	}

	got, err := store.Feedback(ctx, "portugal.html")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	want := []engagement.Feedback{{
		Type:         engagement.FeedbackQuestion,
		TripFilename: "portugal.html",
		SectionID:    "flights",
		Title:        "Flights",
		Message:      "Can we upgrade the return leg?",
		Email:        "ana@example.com",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenStore_RequiresPath(t *testing.T) {
	if _, err := engagement.OpenStore(engagement.StoreConfig{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
