// Package lives tracks the resource pool that ends a Survival game.
package lives

import "sync"

// State is a snapshot of the tracker.
type State struct {
	Remaining int
	Initial   int
}

// Tracker counts remaining lives. Remaining never drops below zero and the
// exhaustion signal is raised exactly once per Reset.
type Tracker struct {
	mu        sync.Mutex
	initial   int
	remaining int
	signalled bool
}

// New returns a Tracker holding initial lives.
func New(initial int) *Tracker {
	t := &Tracker{}
	t.Reset(initial)
	return t
}

// Reset configures a new initial count and refills to it.
func (t *Tracker) Reset(initial int) {
	if initial < 0 {
		initial = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initial = initial
	t.remaining = initial
	t.signalled = false
}

// Restore refills to the configured initial count.
func (t *Tracker) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = t.initial
	t.signalled = false
}

// Decrement removes one life. It returns true only on the call that
// empties the pool.
func (t *Tracker) Decrement() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 && !t.signalled {
		t.signalled = true
		return true
	}
	return false
}

func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Tracker) Initial() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initial
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Remaining: t.remaining, Initial: t.initial}
}
