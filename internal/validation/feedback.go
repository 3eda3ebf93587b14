package validation

import (
	"context"

	"github.com/rs/zerolog"

	"go-flash/internal/content"
)

// Feedback describes the user-facing reaction to an answer.
type Feedback struct {
	RoundID string
	Variant content.Variant
	Outcome Result
	Special bool
	Visual  map[string]string // variant-specific parameters
}

// FeedbackSink receives feedback. Implementations must not block; feedback
// never influences scoring.
type FeedbackSink interface {
	Feedback(ctx context.Context, f Feedback)
}

// FeedbackFunc adapts a function to FeedbackSink.
type FeedbackFunc func(ctx context.Context, f Feedback)

func (fn FeedbackFunc) Feedback(ctx context.Context, f Feedback) { fn(ctx, f) }

// LogSink writes feedback to a logger at debug level.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Feedback(_ context.Context, f Feedback) {
	ev := s.Logger.Debug().
		Str("round_id", f.RoundID).
		Str("variant", string(f.Variant)).
		Stringer("outcome", f.Outcome).
		Bool("special", f.Special)
	for k, v := range f.Visual {
		ev = ev.Str(k, v)
	}
	ev.Msg("answer feedback")
}

// Multi fans feedback out to several sinks in order.
type Multi []FeedbackSink

func (m Multi) Feedback(ctx context.Context, f Feedback) {
	for _, s := range m {
		if s != nil {
			s.Feedback(ctx, f)
		}
	}
}

func dispatch(ctx context.Context, sink FeedbackSink, r content.Round, res Result, visual map[string]string) {
	if sink == nil {
		return
	}
	sink.Feedback(ctx, Feedback{
		RoundID: r.ID,
		Variant: r.Variant,
		Outcome: res,
		Special: r.Special,
		Visual:  visual,
	})
}
