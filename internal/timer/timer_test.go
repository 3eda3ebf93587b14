package timer

import (
	"errors"
	"testing"
	"time"

	"go-flash/internal/clock"
)

func TestService_ExpiresWithinOneInterval(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	s := New(c, 0)

	ticks := 0
	expired := 0
	if err := s.Start(60*time.Second, func(time.Duration) { ticks++ }, func() { expired++ }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	c.Advance(60*time.Second - time.Millisecond)
	if expired != 0 {
		t.Fatal("Expired before the deadline")
	}

	c.Advance(s.Interval())
	if expired != 1 {
		t.Fatalf("Expected exactly one expiry within duration + interval, got %d", expired)
	}
	if ticks == 0 {
		t.Error("Expected ticks before expiry")
	}
	if s.Running() {
		t.Error("Service should stop after expiry")
	}

	c.Advance(10 * time.Second)
	if expired != 1 {
		t.Errorf("Expiry fired again: %d", expired)
	}
}

func TestService_TickReportsRemaining(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	s := New(c, 250*time.Millisecond)

	var seen []time.Duration
	_ = s.Start(time.Second, func(r time.Duration) { seen = append(seen, r) }, func() {})
	c.Advance(time.Second)

	want := []time.Duration{750 * time.Millisecond, 500 * time.Millisecond, 250 * time.Millisecond}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d ticks, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Tick %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestService_StopIsIdempotentAndSilencesTicks(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	s := New(c, 0)

	fired := false
	_ = s.Start(time.Second, func(time.Duration) { fired = true }, func() { fired = true })
	s.Stop()
	s.Stop()

	c.Advance(5 * time.Second)
	if fired {
		t.Error("Callbacks fired after Stop")
	}
	if s.Remaining() != 0 {
		t.Errorf("Stopped timer should report zero remaining, got %v", s.Remaining())
	}
}

func TestService_RestartRequiresStop(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	s := New(c, 0)

	_ = s.Start(time.Second, nil, func() {})
	if err := s.Start(time.Second, nil, func() {}); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}

	s.Stop()
	if err := s.Start(2*time.Second, nil, func() {}); err != nil {
		t.Errorf("Restart after Stop failed: %v", err)
	}
	if s.Remaining() != 2*time.Second {
		t.Errorf("Expected 2s remaining, got %v", s.Remaining())
	}
}

func TestService_RejectsNonPositiveDuration(t *testing.T) {
	s := New(clock.NewFake(time.Unix(0, 0)), 0)
	if err := s.Start(0, nil, func() {}); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Expected ErrInvalidDuration, got %v", err)
	}
}
