package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"go-flash/internal/content"
	"go-flash/internal/game"
	"go-flash/internal/state"
	"go-flash/internal/validation"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red for incorrect answers
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green for correct answers
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Color for the score
	boldStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func (s *LocalState) View() string {
	if s.Session.Phase() == state.Ended {
		return s.renderResults()
	}
	r, ok := s.Session.CurrentRound()
	if !ok {
		return s.renderError()
	}

	// 1. Banner
	bannerTxt := fmt.Sprintf("┃ DECK: %s | MODE: %s", s.Deck.Title, s.Mode)
	cardWidth := lipgloss.Width(bannerTxt) + 1
	if w := lipgloss.Width(r.PromptText) + 4; w > cardWidth {
		cardWidth = w
	}
	bannerTxt += strings.Repeat(" ", cardWidth-lipgloss.Width(bannerTxt)+2) + "┃"
	display := "┏" + strings.Repeat("━", cardWidth+1) + "┓\n" + bannerTxt

	// 2. Card
	customBorder := lipgloss.ThickBorder()
	customBorder.Top = "═"
	customBorder.TopLeft = "┃"
	customBorder.TopRight = "┃"
	borderStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Border(customBorder).
		Width(cardWidth + 1)
	display += "\n" + borderStyle.Render(s.renderRound(r))

	// 3. Status line
	display += "\n" + s.renderStatus() + "\n"

	if s.feedback != nil {
		display += "\n" + renderFeedback(*s.feedback)
	}
	if s.err != nil {
		display += "\n" + redStyle.Render(s.err.Error())
	}
	if s.History != nil {
		if s.History.Attempts() > 0 {
			display += fmt.Sprintf("\nAttempt: %d | High score (this deck): %d", s.History.Attempts()+1, s.History.HighScore().Score)
		} else {
			display += "\nThis is your first try with this deck! Good luck!"
		}
	}
	return display + "\n\n" + s.help.View(keys)
}

func (s *LocalState) renderRound(r content.Round) string {
	var b strings.Builder
	prompt := boldStyle.Render(r.PromptText)
	if r.Special {
		prompt += scoreStyle.Render(" ★")
	}
	b.WriteString(prompt + "\n\n")

	switch r.Variant {
	case content.Quiz:
		for i, o := range r.Options {
			fmt.Fprintf(&b, "%d) %s\n", i+1, o)
		}
	case content.Swipe:
		b.WriteString("= " + cursorStyle.Render(" "+r.ShownAnswer+" ") + "\n")
		b.WriteString(dimStyle.Render("y: right pair   n: wrong pair") + "\n")
	case content.Match:
		b.WriteString(s.input.View() + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *LocalState) renderStatus() string {
	stats := s.Session.Stats()
	statusLine := fmt.Sprintf("SCORE: %d | STREAK: %d | CORRECT: %d | ERRORS: %d",
		stats.TotalScore, stats.CurrentStreak, stats.Correct, stats.Incorrect)

	switch s.Mode.Kind {
	case game.Survival:
		l := s.Session.Lives()
		statusLine += " | LIVES: " + redStyle.Render(strings.Repeat("♥", l.Remaining)) +
			dimStyle.Render(strings.Repeat("♡", l.Initial-l.Remaining))
	case game.Timed:
		t := s.Session.Time()
		timeColor := lipgloss.Color("11")
		if t.Remaining <= t.Total/3 {
			timeColor = lipgloss.Color("9")
		}
		statusLine += " | TIME: " + lipgloss.NewStyle().Foreground(timeColor).Render(formatClock(t.Remaining))
	}
	return scoreStyle.Render(statusLine)
}

func formatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func renderFeedback(f validation.Feedback) string {
	if f.Outcome == validation.Correct {
		return greenStyle.Render("Correct!")
	}
	msg := "Wrong!"
	if expected, ok := f.Visual["expected"]; ok {
		msg += " The answer was: " + expected
	}
	if f.Visual["pair"] == "correct" {
		msg += " That pair was right."
	} else if f.Visual["pair"] == "incorrect" {
		msg += " That pair was wrong."
	}
	return redStyle.Render(msg)
}

func (s *LocalState) renderError() string {
	if s.err != nil {
		return redStyle.Render(s.err.Error()) + "\n\n" + s.help.View(keys)
	}
	return ""
}

func (s *LocalState) renderResults() string {
	stats := s.Session.Stats()
	reason := s.Session.EndReason()

	var display string
	switch reason {
	case state.TimeUp:
		display = redStyle.Render(fmt.Sprintf("Time's up! Final score: %d", stats.TotalScore))
	case state.NoLives:
		display = redStyle.Render(fmt.Sprintf("Out of lives! Final score: %d", stats.TotalScore))
	case state.NoContent:
		display = redStyle.Render("Not enough cards to continue this game.")
	default:
		display = dimStyle.Render("Game abandoned, results discarded.")
	}

	if reason.ShowsResults() {
		display += fmt.Sprintf("\nCorrect: %d | Errors: %d | Accuracy: %.0f%% | Best streak: %d",
			stats.Correct, stats.Incorrect, stats.Accuracy()*100, stats.BestStreak)
		if avg := stats.AverageResponseTime(); avg > 0 {
			display += fmt.Sprintf(" | Avg. time: %.1fs", avg.Seconds())
		}
		if s.History != nil && s.History.GotHighScore() {
			display += "\n" + greenStyle.Render("You got a high score!") + " Top 5 scores:"
			for _, entry := range s.History.Top(5) {
				display += fmt.Sprintf("\n  * %d on %s", entry.Score, entry.Timestamp)
			}
		}
	}
	return display + "\n\n" + s.help.View(keys)
}
