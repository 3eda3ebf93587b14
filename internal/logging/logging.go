// Package logging builds the program's zerolog logger. The terminal belongs
// to the UI, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger at level writing JSON lines to path. An empty path
// or the "disabled" level yields a no-op logger. The returned closer
// releases the file.
func New(level, path string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("parse log level: %w", err)
	}
	if path == "" || lvl == zerolog.Disabled {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(lvl, f), f, nil
}

// NewWriter returns a logger at lvl writing to w.
func NewWriter(lvl zerolog.Level, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "go-flash").Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
