package state

import (
	"fmt"
	"strings"
)

// EndReason records why a session left Active.
type EndReason int

const (
	None EndReason = iota
	TimeUp
	NoLives
	UserQuit
	NoContent
)

var reasonNames = map[EndReason]string{
	None:      "none",
	TimeUp:    "timeUp",
	NoLives:   "noLives",
	UserQuit:  "userQuit",
	NoContent: "noContent",
}

func (r EndReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("EndReason(%d)", int(r))
}

// ParseEndReason is the inverse of String, case-insensitive.
func ParseEndReason(s string) (EndReason, error) {
	for r, name := range reasonNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return None, fmt.Errorf("unknown end reason %q", s)
}

// ShowsResults reports whether the session ended normally and should
// present results. Quits and content failures are discarded.
func (r EndReason) ShowsResults() bool {
	return r == TimeUp || r == NoLives
}

func (m *Machine) IsActive() bool { return m.Phase() == Active }

func (m *Machine) IsEnded() bool { return m.Phase() == Ended }
