package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// durationFlag accepts seconds ("90"), MM:SS ("1:30") or a Go duration ("90s").
type durationFlag struct {
	d *time.Duration
}

func (t durationFlag) String() string {
	if t.d == nil {
		return ""
	}
	total := int(t.d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (t durationFlag) Set(s string) error {
	d, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*t.d = d
	return nil
}

// ParseDuration parses the countdown syntax used on the command line.
func ParseDuration(s string) (time.Duration, error) {
	if val, err := strconv.Atoi(s); err == nil {
		return time.Duration(val) * time.Second, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && sec < 60 {
			return time.Duration(min*60+sec) * time.Second, nil
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid timer format: %s (use 'MM:SS' or seconds)", s)
}

type strictIntFlag struct {
	i *int
}

func (f strictIntFlag) String() string {
	if f.i == nil {
		return "0"
	}
	return fmt.Sprint(*f.i)
}

func (f strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f.i = v
	return nil
}

func (f strictIntFlag) IsBoolFlag() bool { return true }

// BindFlags registers command-line overrides for cfg on fs. Flag defaults
// are the values already in cfg, so unset flags keep env settings.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Play mode: practice, survival or time")
	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "Play mode (shorthand)")

	fs.StringVar(&cfg.Variant, "game", cfg.Variant, "Minigame: quiz, match or swipe")
	fs.StringVar(&cfg.Variant, "g", cfg.Variant, "Minigame (shorthand)")

	fs.Var(strictIntFlag{&cfg.Lives}, "lives", "Lives in survival mode")
	fs.Var(strictIntFlag{&cfg.Lives}, "l", "Lives in survival mode (shorthand)")

	fs.Var(durationFlag{&cfg.Duration}, "timer", "Countdown in time mode (e.g. 60 or 1:30)")
	fs.Var(durationFlag{&cfg.Duration}, "t", "Countdown in time mode (shorthand)")

	fs.Var(strictIntFlag{&cfg.Choices}, "choices", "Options per quiz round")
	fs.StringVar(&cfg.Direction, "direction", cfg.Direction, "Prompt side: front, back or mixed")

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Result storage: json, sqlite or none")
	fs.StringVar(&cfg.ScorePath, "scores", cfg.ScorePath, "Result storage path")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
}
