// Package config loads game settings from the environment, an optional .env
// file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"go-flash/internal/content"
	"go-flash/internal/game"
	"go-flash/internal/scoring"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "GOFLASH_"

// Config holds every setting a play session reads at start.
type Config struct {
	Mode     string        `env:"MODE" envDefault:"practice" validate:"oneof=practice survival time timed"`
	Variant  string        `env:"VARIANT" envDefault:"quiz" validate:"oneof=quiz match swipe"`
	Lives    int           `env:"LIVES" envDefault:"3" validate:"gt=0"`
	Duration time.Duration `env:"DURATION" envDefault:"60s" validate:"gt=0"`
	Tick     time.Duration `env:"TICK" envDefault:"100ms" validate:"gt=0"`

	Choices       int      `env:"CHOICES" envDefault:"4" validate:"gte=2,lte=9"`
	RepeatWindow  int      `env:"REPEAT_WINDOW" envDefault:"1" validate:"gte=1"`
	Direction     string   `env:"DIRECTION" envDefault:"front" validate:"oneof=front back mixed"`
	SwipeBias     *float64 `env:"SWIPE_BIAS" validate:"omitempty,gte=0,lte=1"`
	SpecialChance float64  `env:"SPECIAL_CHANCE" envDefault:"0" validate:"gte=0,lte=1"`

	Scoring scoring.Config `envPrefix:"SCORE_"`

	Storage   string `env:"STORAGE" envDefault:"json" validate:"oneof=json sqlite none"`
	ScorePath string `env:"SCORE_PATH"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error disabled"`
	LogFile  string `env:"LOG_FILE"`

	Decks []string `env:"DECKS" envSeparator:","`
}

var validate = validator.New()

// Load reads envFile, when it exists, then parses the environment. Values
// already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return Parse()
}

// Parse builds a Config from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints, reporting every failing field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return c.Scoring.Validate()
}

// GameMode builds the session mode.
func (c Config) GameMode() (game.Mode, error) {
	kind, err := game.ParseKind(c.Mode)
	if err != nil {
		return game.Mode{}, err
	}
	v, err := content.ParseVariant(c.Variant)
	if err != nil {
		return game.Mode{}, err
	}
	m := game.Mode{Kind: kind, Variant: v}
	switch kind {
	case game.Survival:
		m.MaxLives = c.Lives
	case game.Timed:
		m.Duration = c.Duration
	}
	return m, m.Validate()
}

// GeneratorOptions builds the round generator settings.
func (c Config) GeneratorOptions() content.Options {
	dir := content.FrontToBack
	switch c.Direction {
	case "back":
		dir = content.BackToFront
	case "mixed":
		dir = content.Mixed
	}
	return content.Options{
		Choices:       c.Choices,
		RepeatWindow:  c.RepeatWindow,
		Direction:     dir,
		SwipeBias:     c.SwipeBias,
		SpecialChance: c.SpecialChance,
	}
}
