package game

import (
	"strconv"
	"strings"

	"go-flash/internal/content"
	"go-flash/internal/validation"
)

// Game translates terminal input into answers for the session's current
// round, independent of the UI.
type Game struct {
	Session *Session
}

// NewGame wraps s.
func NewGame(s *Session) *Game {
	return &Game{Session: s}
}

// IsExitRequested reports keys that quit the current session.
func IsExitRequested(key string) bool {
	return key == "ctrl+c" || key == "esc"
}

// AnswerForKey maps a key press to an answer for r. Quiz rounds take the
// option number (1-9); swipe rounds take y/n, l/h or the arrow keys. Match
// rounds are answered with typed text, see AnswerForText.
func AnswerForKey(r content.Round, key string) (validation.Answer, bool) {
	switch r.Variant {
	case content.Quiz:
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(r.Options) {
			return nil, false
		}
		return validation.QuizAnswer{Option: r.Options[n-1]}, true
	case content.Swipe:
		switch strings.ToLower(key) {
		case "y", "l", "right":
			return validation.SwipeAnswer{Accept: true}, true
		case "n", "h", "left":
			return validation.SwipeAnswer{Accept: false}, true
		}
	}
	return nil, false
}

// AnswerForText pairs typed text with the prompt side of a match round.
func AnswerForText(r content.Round, text string) validation.MatchAnswer {
	if r.AnswerBack {
		return validation.MatchAnswer{Front: r.Prompt.Front, Back: text}
	}
	return validation.MatchAnswer{Front: text, Back: r.Prompt.Back}
}

// HandleKeyPress processes a key press. It reports whether the key was
// consumed, and returns the error of a submitted answer.
func (g *Game) HandleKeyPress(key string) (bool, error) {
	if IsExitRequested(key) {
		return g.Session.Quit(), nil
	}
	r, ok := g.Session.CurrentRound()
	if !ok {
		return false, nil
	}
	a, ok := AnswerForKey(r, key)
	if !ok {
		return false, nil
	}
	return true, g.Session.SubmitAnswerFor(r.ID, a)
}

// HandleText submits typed text for the current match round.
func (g *Game) HandleText(text string) error {
	r, ok := g.Session.CurrentRound()
	if !ok {
		return ErrInvalidState
	}
	if r.Variant != content.Match {
		return validation.ErrAnswerKind
	}
	return g.Session.SubmitAnswerFor(r.ID, AnswerForText(r, text))
}
