// Package state holds the session phase machine.
package state

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Phase is the lifecycle position of a session.
type Phase string

const (
	NotStarted Phase = "notStarted"
	Active     Phase = "active"
	Ended      Phase = "ended"
)

// Machine tracks the phase and end reason of one session object. It is not
// safe for concurrent use; the owning session serializes access.
type Machine struct {
	FSM    *fsm.FSM
	Reason EndReason
	Starts int // number of times the machine entered Active
}

// NewMachine returns a machine in NotStarted.
func NewMachine() *Machine {
	m := &Machine{}
	m.FSM = fsm.NewFSM(
		string(NotStarted),
		getStateTransitions(),
		getStateCallbacks(m),
	)
	return m
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "start", Src: []string{string(NotStarted), string(Ended)}, Dst: string(Active)},
		{Name: "end", Src: []string{string(Active)}, Dst: string(Ended)},
		// abort undoes a start that could not produce its first round
		{Name: "abort", Src: []string{string(Active)}, Dst: string(NotStarted)},
	}
}

func getStateCallbacks(m *Machine) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + string(Active): func(_ context.Context, e *fsm.Event) {
			m.Reason = None
			m.Starts++
		},
		"before_end": func(_ context.Context, e *fsm.Event) {
			reason, ok := reasonArg(e.Args)
			if !ok || reason == None {
				e.Cancel(fmt.Errorf("end requires a reason"))
			}
		},
		"enter_" + string(Ended): func(_ context.Context, e *fsm.Event) {
			m.Reason, _ = reasonArg(e.Args)
		},
		"enter_" + string(NotStarted): func(_ context.Context, e *fsm.Event) {
			m.Reason = None
		},
	}
}

func reasonArg(args []interface{}) (EndReason, bool) {
	if len(args) == 0 {
		return None, false
	}
	r, ok := args[0].(EndReason)
	return r, ok
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return Phase(m.FSM.Current())
}

// Start moves to Active from NotStarted or Ended.
func (m *Machine) Start(ctx context.Context) error {
	if err := m.FSM.Event(ctx, "start"); err != nil {
		return fmt.Errorf("start from %s: %w", m.Phase(), err)
	}
	return nil
}

// End moves Active to Ended with reason. It reports false, and changes
// nothing, when the machine is not Active.
func (m *Machine) End(ctx context.Context, reason EndReason) bool {
	if !m.FSM.Can("end") || reason == None {
		return false
	}
	return m.FSM.Event(ctx, "end", reason) == nil
}

// Abort returns an Active machine to NotStarted.
func (m *Machine) Abort(ctx context.Context) {
	if m.FSM.Can("abort") {
		_ = m.FSM.Event(ctx, "abort")
	}
}
