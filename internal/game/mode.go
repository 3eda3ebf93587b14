package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-flash/internal/content"
)

// ErrInvalidState is returned for operations the current phase does not
// allow. The session is left unchanged.
var ErrInvalidState = errors.New("invalid session state")

// ConfigurationError reports a mode that cannot start a session.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Kind is the play mode.
type Kind int

const (
	Practice Kind = iota
	Survival
	Timed
)

func (k Kind) String() string {
	switch k {
	case Practice:
		return "practice"
	case Survival:
		return "survival"
	case Timed:
		return "time"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "practice", "survival" or "time".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "practice", "":
		return Practice, nil
	case "survival":
		return Survival, nil
	case "time", "timed":
		return Timed, nil
	}
	return Practice, fmt.Errorf("unknown mode %q", s)
}

// Mode fixes how a session is played. It does not change once started.
type Mode struct {
	Kind     Kind
	Variant  content.Variant
	MaxLives int           // Survival only
	Duration time.Duration // Timed only
}

func PracticeMode(v content.Variant) Mode { return Mode{Kind: Practice, Variant: v} }

func SurvivalMode(v content.Variant, maxLives int) Mode {
	return Mode{Kind: Survival, Variant: v, MaxLives: maxLives}
}

func TimeMode(v content.Variant, d time.Duration) Mode {
	return Mode{Kind: Timed, Variant: v, Duration: d}
}

// Validate returns a *ConfigurationError for modes that cannot start.
func (m Mode) Validate() error {
	if _, err := content.ParseVariant(string(m.Variant)); err != nil {
		return &ConfigurationError{Field: "variant", Reason: fmt.Sprintf("%q is not a minigame", m.Variant)}
	}
	switch m.Kind {
	case Practice:
	case Survival:
		if m.MaxLives <= 0 {
			return &ConfigurationError{Field: "lives", Reason: fmt.Sprintf("must be positive, got %d", m.MaxLives)}
		}
	case Timed:
		if m.Duration <= 0 {
			return &ConfigurationError{Field: "duration", Reason: fmt.Sprintf("must be positive, got %v", m.Duration)}
		}
	default:
		return &ConfigurationError{Field: "mode", Reason: fmt.Sprintf("unknown kind %d", int(m.Kind))}
	}
	return nil
}

// String names the mode the way results are stored, e.g. "survival/quiz".
func (m Mode) String() string {
	return m.Kind.String() + "/" + string(m.Variant)
}
