package game

import (
	"errors"
	"testing"

	"go-flash/internal/content"
	"go-flash/internal/state"
	"go-flash/internal/validation"
)

func TestAnswerForKey_Quiz(t *testing.T) {
	r := content.Round{Variant: content.Quiz, Options: []string{"one", "two", "three"}}

	a, ok := AnswerForKey(r, "2")
	if !ok {
		t.Fatal("Digit within range should map to an answer")
	}
	if qa := a.(validation.QuizAnswer); qa.Option != "two" {
		t.Errorf("Expected option 'two', got %q", qa.Option)
	}

	for _, key := range []string{"0", "4", "x", "enter"} {
		if _, ok := AnswerForKey(r, key); ok {
			t.Errorf("Key %q should not map to an answer", key)
		}
	}
}

func TestAnswerForKey_Swipe(t *testing.T) {
	r := content.Round{Variant: content.Swipe}
	tests := map[string]bool{
		"y": true, "Y": true, "l": true, "right": true,
		"n": false, "h": false, "left": false,
	}
	for key, accept := range tests {
		a, ok := AnswerForKey(r, key)
		if !ok {
			t.Errorf("Key %q should map to a swipe", key)
			continue
		}
		if a.(validation.SwipeAnswer).Accept != accept {
			t.Errorf("Key %q: expected accept=%v", key, accept)
		}
	}
	if _, ok := AnswerForKey(r, "1"); ok {
		t.Error("Digits do not answer swipe rounds")
	}
}

func TestAnswerForKey_MatchUsesText(t *testing.T) {
	if _, ok := AnswerForKey(content.Round{Variant: content.Match}, "y"); ok {
		t.Error("Match rounds are answered with text")
	}
}

func TestAnswerForText(t *testing.T) {
	w := content.Word{Front: "gato", Back: "cat"}

	got := AnswerForText(content.Round{Prompt: w, AnswerBack: true}, "cat")
	if got != (validation.MatchAnswer{Front: "gato", Back: "cat"}) {
		t.Errorf("Front-to-back pairing mismatch: %+v", got)
	}
	got = AnswerForText(content.Round{Prompt: w, AnswerBack: false}, "gato")
	if got != (validation.MatchAnswer{Front: "gato", Back: "cat"}) {
		t.Errorf("Back-to-front pairing mismatch: %+v", got)
	}
}

func TestGame_HandleKeyPress(t *testing.T) {
	h := newHarness(t, testWords(), nil)
	g := NewGame(h.sess)

	if handled, _ := g.HandleKeyPress("1"); handled {
		t.Error("Keys before start should not be handled")
	}

	_ = h.sess.Start(PracticeMode(content.Quiz))
	r := h.current(t)
	key := string(rune('1' + r.CorrectIndex))

	handled, err := g.HandleKeyPress(key)
	if !handled || err != nil {
		t.Fatalf("Expected handled answer, got %v %v", handled, err)
	}
	if h.sess.Stats().Correct != 1 {
		t.Errorf("Expected one correct answer, got %+v", h.sess.Stats())
	}

	if handled, _ := g.HandleKeyPress("z"); handled {
		t.Error("Unmapped key should not be handled")
	}

	if handled, _ := g.HandleKeyPress("ctrl+c"); !handled {
		t.Error("ctrl+c should quit")
	}
	if h.sess.EndReason() != state.UserQuit {
		t.Errorf("Expected UserQuit, got %s", h.sess.EndReason())
	}
}

func TestGame_HandleText(t *testing.T) {
	h := newHarness(t, testWords(), nil)
	g := NewGame(h.sess)

	if err := g.HandleText("x"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState before start, got %v", err)
	}

	_ = h.sess.Start(PracticeMode(content.Quiz))
	if err := g.HandleText("x"); !errors.Is(err, validation.ErrAnswerKind) {
		t.Errorf("Expected ErrAnswerKind for quiz round, got %v", err)
	}

	_ = h.sess.Start(PracticeMode(content.Match))
	r := h.current(t)
	if err := g.HandleText("  " + r.CorrectAnswer + " "); err != nil {
		t.Fatal(err)
	}
	if h.sess.Stats().Correct != 1 {
		t.Errorf("Typed answer should be correct, got %+v", h.sess.Stats())
	}
}
