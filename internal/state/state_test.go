package state

import (
	"context"
	"testing"
)

func TestMachine_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()

	if m.Phase() != NotStarted {
		t.Fatalf("Expected %s, got %s", NotStarted, m.Phase())
	}
	if m.End(ctx, UserQuit) {
		t.Error("End before start should be a no-op")
	}

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.IsActive() || m.Reason != None {
		t.Errorf("Expected active with no reason, got %s/%s", m.Phase(), m.Reason)
	}

	if !m.End(ctx, NoLives) {
		t.Fatal("First End should transition")
	}
	if !m.IsEnded() || m.Reason != NoLives {
		t.Errorf("Expected ended/noLives, got %s/%s", m.Phase(), m.Reason)
	}
}

func TestMachine_EndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()
	_ = m.Start(ctx)

	m.End(ctx, UserQuit)
	if m.End(ctx, TimeUp) {
		t.Error("Second End should report no change")
	}
	if m.Reason != UserQuit {
		t.Errorf("Reason changed on second End: %s", m.Reason)
	}
	if m.Phase() != Ended {
		t.Errorf("Phase should remain ended, got %s", m.Phase())
	}
}

func TestMachine_EndRequiresReason(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()
	_ = m.Start(ctx)

	if m.End(ctx, None) {
		t.Error("End with None should be rejected")
	}
	if !m.IsActive() {
		t.Errorf("Machine should still be active, got %s", m.Phase())
	}
}

func TestMachine_RestartAfterEnd(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()
	_ = m.Start(ctx)
	m.End(ctx, TimeUp)

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if m.Reason != None {
		t.Errorf("Restart should clear the reason, got %s", m.Reason)
	}
	if m.Starts != 2 {
		t.Errorf("Expected 2 starts, got %d", m.Starts)
	}
}

func TestMachine_StartWhileActive(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()
	_ = m.Start(ctx)
	if err := m.Start(ctx); err == nil {
		t.Error("Start while active should fail")
	}
}

func TestMachine_Abort(t *testing.T) {
	ctx := context.Background()
	m := NewMachine()
	_ = m.Start(ctx)
	m.Abort(ctx)
	if m.Phase() != NotStarted {
		t.Errorf("Abort should return to %s, got %s", NotStarted, m.Phase())
	}

	// aborting outside Active does nothing
	m.Abort(ctx)
	if m.Phase() != NotStarted {
		t.Errorf("Unexpected phase %s", m.Phase())
	}
}

func TestEndReason_ShowsResults(t *testing.T) {
	tests := []struct {
		reason EndReason
		want   bool
	}{
		{TimeUp, true},
		{NoLives, true},
		{UserQuit, false},
		{NoContent, false},
		{None, false},
	}
	for _, tt := range tests {
		if got := tt.reason.ShowsResults(); got != tt.want {
			t.Errorf("%s.ShowsResults() = %v, want %v", tt.reason, got, tt.want)
		}
	}
}

func TestParseEndReason(t *testing.T) {
	for r := range reasonNames {
		got, err := ParseEndReason(r.String())
		if err != nil || got != r {
			t.Errorf("ParseEndReason(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseEndReason("bogus"); err == nil {
		t.Error("Expected error for unknown reason")
	}
	if EndReason(42).String() != "EndReason(42)" {
		t.Errorf("Unexpected fallback name %q", EndReason(42).String())
	}
}
