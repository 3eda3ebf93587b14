package game

import (
	"testing"
	"time"

	"go-flash/internal/content"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"practice": Practice,
		"":         Practice,
		"Survival": Survival,
		"time":     Timed,
		"timed":    Timed,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("arcade"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestMode_String(t *testing.T) {
	if s := TimeMode(content.Swipe, time.Minute).String(); s != "time/swipe" {
		t.Errorf("Unexpected mode name %q", s)
	}
	if s := SurvivalMode(content.Quiz, 3).String(); s != "survival/quiz" {
		t.Errorf("Unexpected mode name %q", s)
	}
}

func TestMode_ValidateIgnoresUnusedFields(t *testing.T) {
	m := Mode{Kind: Practice, Variant: content.Match, MaxLives: -1, Duration: -1}
	if err := m.Validate(); err != nil {
		t.Errorf("Practice ignores lives and duration, got %v", err)
	}
}
