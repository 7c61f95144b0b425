package engagement

import "context"

// Recorder persists engagement events.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// FeedbackSink persists visitor feedback.
type FeedbackSink interface {
	SaveFeedback(ctx context.Context, feedback Feedback) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, event Event) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, event Event) error {
	return f(ctx, event)
}
