// Package timer implements the cooperative countdown used by Time mode.
package timer

import (
	"errors"
	"sync"
	"time"

	"go-flash/internal/clock"
)

// DefaultInterval is the nominal spacing between ticks.
const DefaultInterval = 100 * time.Millisecond

var (
	ErrAlreadyRunning  = errors.New("timer already running")
	ErrInvalidDuration = errors.New("timer duration must be positive")
)

// Service counts down from a duration, reporting each tick and a single
// terminal expiry. Callbacks run on the clock's goroutine; the owner is
// responsible for marshaling them onto its own serialization domain.
type Service struct {
	clock    clock.Clock
	interval time.Duration

	mu       sync.Mutex
	gen      uint64
	running  bool
	total    time.Duration
	deadline time.Time
	pending  clock.Timer
	onTick   func(remaining time.Duration)
	onExpire func()
}

// New creates a stopped Service. A non-positive interval selects DefaultInterval.
func New(c clock.Clock, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{clock: c, interval: interval}
}

// Interval returns the tick spacing.
func (s *Service) Interval() time.Duration { return s.interval }

// Start begins counting down d. onTick may be nil.
func (s *Service) Start(d time.Duration, onTick func(remaining time.Duration), onExpire func()) error {
	if d <= 0 {
		return ErrInvalidDuration
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.gen++
	s.running = true
	s.total = d
	s.deadline = s.clock.Now().Add(d)
	s.onTick = onTick
	s.onExpire = onExpire
	s.scheduleLocked(s.gen)
	return nil
}

// Stop cancels pending ticks. Calling it on a stopped Service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.gen++
	s.running = false
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Running reports whether a countdown is in progress.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Remaining returns the time left, or zero when stopped.
func (s *Service) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return s.remainingLocked()
}

func (s *Service) remainingLocked() time.Duration {
	r := s.deadline.Sub(s.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}

func (s *Service) scheduleLocked(gen uint64) {
	wait := s.interval
	if r := s.remainingLocked(); r < wait {
		wait = r
	}
	s.pending = s.clock.AfterFunc(wait, func() { s.fire(gen) })
}

func (s *Service) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.running {
		s.mu.Unlock()
		return
	}
	remaining := s.remainingLocked()
	if remaining <= 0 {
		s.running = false
		s.pending = nil
		expire := s.onExpire
		s.mu.Unlock()
		if expire != nil {
			expire()
		}
		return
	}
	tick := s.onTick
	s.scheduleLocked(gen)
	s.mu.Unlock()
	if tick != nil {
		tick(remaining)
	}
}
