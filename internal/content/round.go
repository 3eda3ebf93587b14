package content

import (
	"fmt"
	"strings"
	"time"
)

// Variant is the minigame a round is built for.
type Variant string

const (
	Quiz  Variant = "quiz"
	Match Variant = "match"
	Swipe Variant = "swipe"
)

// Variants lists every supported minigame.
var Variants = []Variant{Quiz, Match, Swipe}

// ParseVariant accepts a variant name case-insensitively.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case Quiz, Match, Swipe:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// minPool is the smallest pool each variant can build a round from.
func (v Variant) minPool() int {
	if v == Quiz {
		return 2
	}
	return 1
}

// Round is one presented prompt awaiting a single answer. Rounds are
// values; use Clone before handing one to another goroutine.
type Round struct {
	ID      string
	Seq     int
	Variant Variant

	Prompt       Word
	PromptText   string
	PromptLocale string
	AnswerBack   bool // the answer is taken from the back of Prompt

	CorrectAnswer string
	AnswerLocale  string

	// Quiz
	Distractors  []string
	Options      []string
	CorrectIndex int

	// Swipe
	ShownAnswer   string
	IsCorrectPair bool

	Special     bool
	PresentedAt time.Time
}

// Clone returns a copy that shares no slices with r.
func (r Round) Clone() Round {
	out := r
	out.Distractors = append([]string(nil), r.Distractors...)
	out.Options = append([]string(nil), r.Options...)
	return out
}
