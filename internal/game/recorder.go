package game

import (
	"context"
	"time"

	"go-flash/internal/scoring"
	"go-flash/internal/state"
)

// Result summarises a session that ended with a results outcome.
type Result struct {
	SessionID string
	Mode      Mode
	Reason    state.EndReason
	Stats     scoring.Stats
	EndedAt   time.Time
}

// ResultRecorder persists results. Only TimeUp and NoLives sessions are
// recorded; quits and content failures are discarded.
type ResultRecorder interface {
	Record(ctx context.Context, r Result) error
}

// HistoryRecorder appends results to a score history.
type HistoryRecorder struct {
	History *scoring.History
	Title   string
}

func (h HistoryRecorder) Record(_ context.Context, r Result) error {
	return h.History.Save(scoring.ResultEntry{
		SessionID:  r.SessionID,
		Title:      h.Title,
		Variant:    string(r.Mode.Variant),
		Score:      r.Stats.TotalScore,
		Correct:    r.Stats.Correct,
		Incorrect:  r.Stats.Incorrect,
		BestStreak: r.Stats.BestStreak,
		Accuracy:   r.Stats.Accuracy(),
		EndReason:  r.Reason.String(),
		Timestamp:  r.EndedAt.Format(time.RFC3339),
	})
}
