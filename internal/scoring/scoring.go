package scoring

import (
	"fmt"
	"time"
)

// Bonus identifies a contribution on top of the base score.
type Bonus uint8

const (
	BonusQuick Bonus = 1 << iota
	BonusSpecial
	BonusStreak
)

func (b Bonus) String() string {
	switch b {
	case BonusQuick:
		return "quick"
	case BonusSpecial:
		return "special"
	case BonusStreak:
		return "streak"
	}
	return fmt.Sprintf("bonus(%d)", uint8(b))
}

// Flags is the set of bonuses that contributed to an Event.
type Flags uint8

func (f Flags) Has(b Bonus) bool { return f&Flags(b) != 0 }

func (f Flags) with(b Bonus) Flags { return f | Flags(b) }

// Event is the scored outcome of a single round.
type Event struct {
	Value   int
	Flags   Flags
	Correct bool
}

// Config holds the scoring constants, read once at session start.
type Config struct {
	Base           int           `env:"BASE" envDefault:"10" validate:"gte=0"`
	QuickThreshold time.Duration `env:"QUICK_THRESHOLD" envDefault:"2s" validate:"gte=0"`
	QuickBonus     int           `env:"QUICK_BONUS" envDefault:"5" validate:"gte=0"`
	SpecialBonus   int           `env:"SPECIAL_BONUS" envDefault:"5" validate:"gte=0"`
}

// DefaultConfig returns the standard scoring table.
func DefaultConfig() Config {
	return Config{
		Base:           10,
		QuickThreshold: 2 * time.Second,
		QuickBonus:     5,
		SpecialBonus:   5,
	}
}

// Validate rejects negative constants.
func (c Config) Validate() error {
	switch {
	case c.Base < 0:
		return fmt.Errorf("base score must not be negative: %d", c.Base)
	case c.QuickThreshold < 0:
		return fmt.Errorf("quick threshold must not be negative: %v", c.QuickThreshold)
	case c.QuickBonus < 0:
		return fmt.Errorf("quick bonus must not be negative: %d", c.QuickBonus)
	case c.SpecialBonus < 0:
		return fmt.Errorf("special bonus must not be negative: %d", c.SpecialBonus)
	}
	return nil
}

// Engine computes score events. It holds no mutable state.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given constants.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// Score rates a correct answer. All bonuses stack additively; the streak
// is added verbatim.
func (e *Engine) Score(responseTime time.Duration, special bool, streak int) Event {
	ev := Event{Value: e.cfg.Base, Correct: true}

	if responseTime <= e.cfg.QuickThreshold && e.cfg.QuickBonus > 0 {
		ev.Value += e.cfg.QuickBonus
		ev.Flags = ev.Flags.with(BonusQuick)
	}
	if special && e.cfg.SpecialBonus > 0 {
		ev.Value += e.cfg.SpecialBonus
		ev.Flags = ev.Flags.with(BonusSpecial)
	}
	if streak > 0 {
		ev.Value += streak
		ev.Flags = ev.Flags.with(BonusStreak)
	}
	return ev
}

// Penalty rates an incorrect answer: half the base, rounded down, negated.
func (e *Engine) Penalty() Event {
	return Event{Value: -(e.cfg.Base / 2)}
}
