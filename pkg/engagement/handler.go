package engagement

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-proposal/pkg/logger"
)

// MaxBodyBytes bounds request bodies accepted by the intake handler.
const MaxBodyBytes = 64 << 10

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used for intake failures.
func WithLogger(l *log.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithFeedbackSink enables POST /feedback.
func WithFeedbackSink(sink FeedbackSink) HandlerOption {
	return func(h *Handler) {
		h.feedback = sink
	}
}

// WithClock overrides the time used to stamp events sent without ts.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// Handler serves the engagement intake endpoints:
//
//	POST /events    one event object or an array of them
//	POST /feedback  a question or exit feedback submission
type Handler struct {
	mux      *http.ServeMux
	recorder Recorder
	feedback FeedbackSink
	logger   *log.Logger
	now      func() time.Time
}

// NewHandler returns an intake handler writing events to recorder.
func NewHandler(recorder Recorder, opts ...HandlerOption) *Handler {
	h := &Handler{
		mux:      http.NewServeMux(),
		recorder: recorder,
		logger:   logger.L(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.mux.HandleFunc("POST /events", h.handleEvents)
	h.mux.HandleFunc("POST /feedback", h.handleFeedback)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	events, err := decodeEvents(body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if len(events) == 0 {
		respondWithError(w, http.StatusBadRequest, "No events in request body")
		return
	}

	for i := range events {
		if events[i].Timestamp.IsZero() {
			events[i].Timestamp = h.now().UTC()
		}
		if err := events[i].Validate(); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	for _, ev := range events {
		if err := h.recorder.Record(r.Context(), ev); err != nil {
			h.logger.Error("failed to record event", "type", ev.Type, "session", ev.SessionID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to record event")
			return
		}
	}

	respondWithJSON(w, http.StatusAccepted, map[string]int{"accepted": len(events)})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if h.feedback == nil {
		respondWithError(w, http.StatusNotFound, "Feedback intake is disabled")
		return
	}

	var fb Feedback
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&fb); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	if fb.Spam() {
		h.logger.Debug("dropped honeypot feedback", "trip", fb.TripFilename)
		respondWithJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
		return
	}
	fb = fb.Trimmed()
	if err := fb.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.feedback.SaveFeedback(r.Context(), fb); err != nil {
		h.logger.Error("failed to save feedback", "type", fb.Type, "trip", fb.TripFilename, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}
	h.logger.Info("feedback received", "type", fb.Type, "trip", fb.TripFilename)
	respondWithJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

func decodeEvents(body []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}
	if trimmed[0] == '[' {
		var events []Event
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var ev Event
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return nil, err
	}
	return []Event{ev}, nil
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}
