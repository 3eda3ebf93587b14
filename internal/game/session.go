package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-flash/internal/clock"
	"go-flash/internal/content"
	"go-flash/internal/lives"
	"go-flash/internal/scoring"
	"go-flash/internal/state"
	"go-flash/internal/timer"
	"go-flash/internal/validation"
)

type Timer interface {
	Start(d time.Duration, onTick func(remaining time.Duration), onExpire func()) error
	Stop()
	Remaining() time.Duration
}

type LivesTracker interface {
	Reset(initial int)
	Decrement() (exhausted bool)
	State() lives.State
}

type Scorer interface {
	Score(responseTime time.Duration, special bool, streak int) scoring.Event
	Penalty() scoring.Event
}

type Validator interface {
	Validate(r content.Round, a validation.Answer) (validation.Result, error)
	DispatchFeedback(ctx context.Context, r content.Round, a validation.Answer, res validation.Result)
}

type RoundSource interface {
	Next(v content.Variant) (content.Round, error)
	Reset()
}

// SpeechSink reads prompts aloud. Calls are fire-and-forget.
type SpeechSink interface {
	Speak(text, locale string)
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Timer     Timer
	Lives     LivesTracker
	Scorer    Scorer
	Validator Validator
	Rounds    RoundSource
	Clock     clock.Clock
	Recorder  ResultRecorder // optional
	Logger    *zerolog.Logger
}

// NewDeps wires the standard collaborators around a round source.
func NewDeps(c clock.Clock, rounds RoundSource, cfg scoring.Config, sink validation.FeedbackSink) Deps {
	return Deps{
		Timer:     timer.New(c, timer.DefaultInterval),
		Lives:     lives.New(0),
		Scorer:    scoring.NewEngine(cfg),
		Validator: validation.NewDispatcher(sink),
		Rounds:    rounds,
		Clock:     c,
	}
}

// Option configures a Session.
type Option func(*Session)

func WithSpeech(s SpeechSink) Option { return func(sess *Session) { sess.speech = s } }

// WithContext sets the context passed to feedback and result recording.
func WithContext(ctx context.Context) Option { return func(sess *Session) { sess.ctx = ctx } }

// Session runs one play attempt at a time and may be restarted. All state
// is guarded by one mutex; timer callbacks take the same lock, so answers
// and countdown expiry never interleave. Events are queued while the lock
// is held and delivered, in order, after it is released.
type Session struct {
	deps    Deps
	log     zerolog.Logger
	ctx     context.Context
	speech  SpeechSink
	emitter *emitter

	mu       sync.Mutex
	machine  *state.Machine
	id       string
	mode     Mode
	round    content.Round
	hasRound bool
	stats    scoring.Stats
	timerGen uint64
	time     TimeState
	outbox   []func()
	draining bool
}

// NewSession creates a session in NotStarted.
func NewSession(deps Deps, opts ...Option) *Session {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	log := zerolog.Nop()
	if deps.Logger != nil {
		log = *deps.Logger
	}
	log = log.With().Str("component", "session").Logger()

	s := &Session{
		deps:    deps,
		log:     log,
		ctx:     context.Background(),
		emitter: newEmitter(log),
		machine: state.NewMachine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers h for every later event and returns a function that
// removes it.
func (s *Session) Subscribe(h Handler) (unsubscribe func()) {
	return s.emitter.subscribe(h)
}

// Start begins a new session in mode. An Active session is first ended as
// a quit. Configuration and content errors leave no session running.
func (s *Session) Start(mode Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlockAndDrain()

	if s.machine.IsActive() {
		s.endLocked(state.UserQuit)
	}
	s.stopTimerLocked()
	mark := len(s.outbox)

	if err := s.machine.Start(s.ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	s.id = uuid.NewString()
	s.mode = mode
	s.hasRound = false
	s.round = content.Round{}
	s.time = TimeState{}
	s.deps.Rounds.Reset()
	log := s.log.With().Str("session_id", s.id).Stringer("mode", mode).Logger()

	switch mode.Kind {
	case Survival:
		s.deps.Lives.Reset(mode.MaxLives)
		s.enqueueEvent(LivesChanged{Lives: s.deps.Lives.State()})
	case Timed:
		s.time = TimeState{Remaining: mode.Duration, Total: mode.Duration}
		s.timerGen++
		gen := s.timerGen
		err := s.deps.Timer.Start(mode.Duration,
			func(remaining time.Duration) { s.onTick(gen, remaining) },
			func() { s.onExpire(gen) },
		)
		if err != nil {
			s.machine.Abort(s.ctx)
			s.outbox = s.outbox[:mark]
			return fmt.Errorf("start countdown: %w", err)
		}
		s.enqueueEvent(TimeChanged{Time: s.time})
	}

	round, err := s.deps.Rounds.Next(mode.Variant)
	if err != nil {
		s.stopTimerLocked()
		s.machine.Abort(s.ctx)
		s.outbox = s.outbox[:mark]
		log.Warn().Err(err).Msg("could not build first round")
		return err
	}
	log.Info().Msg("session started")
	s.presentLocked(round)
	return nil
}

// SubmitAnswer answers the current round.
func (s *Session) SubmitAnswer(a validation.Answer) error {
	return s.SubmitAnswerFor("", a)
}

// SubmitAnswerFor answers the round with roundID, rejecting the answer with
// ErrInvalidState when that round is no longer current. An empty roundID
// means the current round.
func (s *Session) SubmitAnswerFor(roundID string, a validation.Answer) error {
	s.mu.Lock()
	defer s.unlockAndDrain()

	if !s.machine.IsActive() || !s.hasRound {
		return fmt.Errorf("%w: no current round in phase %s", ErrInvalidState, s.machine.Phase())
	}
	r := s.round
	if roundID != "" && roundID != r.ID {
		return fmt.Errorf("%w: round %s is no longer current", ErrInvalidState, roundID)
	}

	res, err := s.deps.Validator.Validate(r, a)
	if err != nil {
		return err
	}

	rt := s.deps.Clock.Now().Sub(r.PresentedAt)
	if rt < 0 {
		rt = 0
	}
	var ev scoring.Event
	if res == validation.Correct {
		ev = s.deps.Scorer.Score(rt, r.Special, s.stats.CurrentStreak)
	} else {
		ev = s.deps.Scorer.Penalty()
	}
	s.stats.Record(ev, rt)
	s.hasRound = false

	ctx := s.ctx
	s.outbox = append(s.outbox, func() { s.deps.Validator.DispatchFeedback(ctx, r, a, res) })
	s.enqueueEvent(ScoreChanged{RoundID: r.ID, Result: res, Score: ev, Stats: s.stats.Snapshot()})

	s.log.Debug().
		Str("round_id", r.ID).
		Stringer("result", res).
		Int("value", ev.Value).
		Dur("response_time", rt).
		Msg("answer scored")

	if res == validation.Incorrect && s.mode.Kind == Survival {
		exhausted := s.deps.Lives.Decrement()
		s.enqueueEvent(LivesChanged{Lives: s.deps.Lives.State()})
		if exhausted {
			s.endLocked(state.NoLives)
			return nil
		}
	}
	if s.mode.Kind == Timed && s.deps.Timer.Remaining() <= 0 {
		s.time.Remaining = 0
		s.endLocked(state.TimeUp)
		return nil
	}

	next, err := s.deps.Rounds.Next(s.mode.Variant)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not build next round")
		s.endLocked(state.NoContent)
		return err
	}
	s.presentLocked(next)
	return nil
}

// Quit ends an Active session without results.
func (s *Session) Quit() bool {
	return s.End(state.UserQuit)
}

// End moves an Active session to Ended. Only the first call has any effect;
// it reports whether this call ended the session.
func (s *Session) End(reason state.EndReason) bool {
	s.mu.Lock()
	defer s.unlockAndDrain()
	return s.endLocked(reason)
}

// ResetStats clears the accumulated statistics.
func (s *Session) ResetStats() {
	s.mu.Lock()
	defer s.unlockAndDrain()
	s.stats.Reset()
	s.enqueueEvent(ScoreChanged{Stats: s.stats.Snapshot()})
}

func (s *Session) endLocked(reason state.EndReason) bool {
	if !s.machine.End(s.ctx, reason) {
		return false
	}
	s.stopTimerLocked()
	s.hasRound = false

	show := reason.ShowsResults()
	stats := s.stats.Snapshot()
	s.log.Info().
		Str("session_id", s.id).
		Stringer("reason", reason).
		Int("score", stats.TotalScore).
		Msg("session ended")

	if show && s.deps.Recorder != nil {
		res := Result{SessionID: s.id, Mode: s.mode, Reason: reason, Stats: stats, EndedAt: s.deps.Clock.Now()}
		rec, ctx, log := s.deps.Recorder, s.ctx, s.log
		s.outbox = append(s.outbox, func() {
			if err := rec.Record(ctx, res); err != nil {
				log.Error().Err(err).Str("session_id", res.SessionID).Msg("could not record result")
			}
		})
	}
	s.enqueueEvent(GameEnded{SessionID: s.id, Reason: reason, ShowResults: show, Stats: stats})
	return true
}

func (s *Session) presentLocked(r content.Round) {
	s.round = r
	s.hasRound = true
	s.enqueueEvent(RoundChanged{Round: r.Clone()})
	if s.speech != nil && r.PromptText != "" {
		speech, text, locale := s.speech, r.PromptText, r.PromptLocale
		s.outbox = append(s.outbox, func() { speech.Speak(text, locale) })
	}
}

func (s *Session) stopTimerLocked() {
	s.timerGen++
	s.deps.Timer.Stop()
}

func (s *Session) onTick(gen uint64, remaining time.Duration) {
	s.mu.Lock()
	defer s.unlockAndDrain()
	if gen != s.timerGen || !s.machine.IsActive() {
		return
	}
	s.time.Remaining = remaining
	s.enqueueEvent(TimeChanged{Time: s.time})
}

func (s *Session) onExpire(gen uint64) {
	s.mu.Lock()
	defer s.unlockAndDrain()
	if gen != s.timerGen || !s.machine.IsActive() {
		return
	}
	s.time.Remaining = 0
	s.enqueueEvent(TimeChanged{Time: s.time})
	s.endLocked(state.TimeUp)
}

func (s *Session) enqueueEvent(ev Event) {
	s.outbox = append(s.outbox, func() { s.emitter.emit(ev) })
}

// unlockAndDrain releases the lock and runs queued deliveries. A call made
// from inside a handler leaves its deliveries to the outer drain so the
// overall order matches the order of state changes.
func (s *Session) unlockAndDrain() {
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()
		s.runBatch(batch)
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

// runBatch runs queued deliveries without the lock. If one panics, the rest
// of the batch is dropped and draining is cleared before the panic unwinds,
// so later calls deliver again.
func (s *Session) runBatch(batch []func()) {
	done := false
	defer func() {
		if !done {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()
	for _, fn := range batch {
		fn()
	}
	done = true
}

// ID identifies the current or last session.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// CurrentRound returns the round awaiting an answer, if any.
func (s *Session) CurrentRound() (content.Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRound {
		return content.Round{}, false
	}
	return s.round.Clone(), true
}

func (s *Session) Phase() state.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Phase()
}

func (s *Session) EndReason() state.EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Reason
}

func (s *Session) Stats() scoring.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Snapshot()
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Lives is the survival state; zero outside Survival mode.
func (s *Session) Lives() lives.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode.Kind != Survival || s.machine.Phase() == state.NotStarted {
		return lives.State{}
	}
	return s.deps.Lives.State()
}

// Time is the countdown state; zero outside Timed mode.
func (s *Session) Time() TimeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode.Kind != Timed {
		return TimeState{}
	}
	t := s.time
	if s.machine.IsActive() {
		t.Remaining = s.deps.Timer.Remaining()
	}
	return t
}
