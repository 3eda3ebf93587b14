package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"go-flash/internal/content"
	"go-flash/internal/lives"
	"go-flash/internal/scoring"
	"go-flash/internal/state"
	"go-flash/internal/validation"
)

// Event is one of RoundChanged, ScoreChanged, LivesChanged, TimeChanged or
// GameEnded.
type Event interface {
	Name() string
}

// RoundChanged announces a new current round.
type RoundChanged struct {
	Round content.Round
}

// ScoreChanged follows every accepted answer, and ResetStats.
type ScoreChanged struct {
	RoundID string
	Result  validation.Result
	Score   scoring.Event
	Stats   scoring.Stats
}

type LivesChanged struct {
	Lives lives.State
}

// TimeState is the countdown of a Timed session.
type TimeState struct {
	Remaining time.Duration
	Total     time.Duration
}

type TimeChanged struct {
	Time TimeState
}

// GameEnded is emitted once per session, at the transition to Ended.
type GameEnded struct {
	SessionID   string
	Reason      state.EndReason
	ShowResults bool
	Stats       scoring.Stats
}

func (RoundChanged) Name() string { return "round_changed" }
func (ScoreChanged) Name() string { return "score_changed" }
func (LivesChanged) Name() string { return "lives_changed" }
func (TimeChanged) Name() string  { return "time_changed" }
func (GameEnded) Name() string    { return "game_ended" }

// Handler receives session events. Handlers run outside the session lock
// and may call back into the session.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// emitter keeps registered handlers and dispatches events to them in
// registration order.
type emitter struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
	logger   zerolog.Logger
}

func newEmitter(logger zerolog.Logger) *emitter {
	return &emitter{logger: logger.With().Str("component", "event_emitter").Logger()}
}

func (e *emitter) subscribe(h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, subscription{id: id, handler: h})
	e.logger.Debug().Int("handler_count", len(e.handlers)).Msg("registered event handler")

	var once sync.Once
	return func() {
		once.Do(func() { e.unsubscribe(id) })
	}
}

func (e *emitter) unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.handlers {
		if s.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	handlers := make([]subscription, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug().
		Str("event", ev.Name()).
		Int("handler_count", len(handlers)).
		Msg("emitting event")

	for _, s := range handlers {
		e.call(s, ev)
	}
}

// call runs one handler; a panic is logged and does not reach the others.
func (e *emitter) call(s subscription, ev Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.Error().
				Str("event", ev.Name()).
				Int("handler_id", s.id).
				Interface("panic", recovered).
				Msg("event handler panicked")
		}
	}()
	s.handler(ev)
}
