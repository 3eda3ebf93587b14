// Package validation checks submitted answers against the current round and
// dispatches feedback for the outcome. There is one validator per minigame
// variant; Dispatcher selects between them by round variant.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"go-flash/internal/content"
)

var (
	// ErrAnswerKind is returned when the answer type does not fit the round
	// variant, e.g. a swipe judgement for a quiz round.
	ErrAnswerKind = errors.New("answer kind does not match round variant")

	ErrUnknownVariant = errors.New("unknown variant")
)

// Result is the outcome of a validation.
type Result int

const (
	Incorrect Result = iota
	Correct
)

func (r Result) String() string {
	if r == Correct {
		return "correct"
	}
	return "incorrect"
}

// Answer is one of QuizAnswer, MatchAnswer or SwipeAnswer.
type Answer interface {
	variant() content.Variant
}

// QuizAnswer selects an option by its text.
type QuizAnswer struct {
	Option string
}

// MatchAnswer pairs a front text with a back text.
type MatchAnswer struct {
	Front string
	Back  string
}

// SwipeAnswer accepts or rejects the shown pair.
type SwipeAnswer struct {
	Accept bool
}

func (QuizAnswer) variant() content.Variant  { return content.Quiz }
func (MatchAnswer) variant() content.Variant { return content.Match }
func (SwipeAnswer) variant() content.Variant { return content.Swipe }

// Validator checks answers for a single variant.
type Validator interface {
	Variant() content.Variant
	Validate(r content.Round, a Answer) (Result, error)
	DispatchFeedback(ctx context.Context, r content.Round, a Answer, res Result)
}

// ForVariant returns the validator for v, reporting feedback to sink.
func ForVariant(v content.Variant, sink FeedbackSink) (Validator, error) {
	switch v {
	case content.Quiz:
		return Quiz{Sink: sink}, nil
	case content.Match:
		return Match{Sink: sink}, nil
	case content.Swipe:
		return Swipe{Sink: sink}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// deref turns a pointer answer into its value; a nil pointer becomes nil.
func deref(a Answer) Answer {
	switch p := a.(type) {
	case *QuizAnswer:
		if p == nil {
			return nil
		}
		return *p
	case *MatchAnswer:
		if p == nil {
			return nil
		}
		return *p
	case *SwipeAnswer:
		if p == nil {
			return nil
		}
		return *p
	}
	return a
}

// checkKind returns a as a value once it fits variant v and round r.
func checkKind(v content.Variant, r content.Round, a Answer) (Answer, error) {
	if r.Variant != v {
		return nil, fmt.Errorf("%w: %s validator got a %s round", ErrAnswerKind, v, r.Variant)
	}
	val := deref(a)
	if val == nil || val.variant() != v {
		return nil, fmt.Errorf("%w: %s round got %T", ErrAnswerKind, v, a)
	}
	return val, nil
}

// Quiz validates option selections. When several options share the
// answer's text, the first in presentation order is the selection.
type Quiz struct {
	Sink FeedbackSink
}

func (Quiz) Variant() content.Variant { return content.Quiz }

func (q Quiz) Validate(r content.Round, a Answer) (Result, error) {
	val, err := checkKind(content.Quiz, r, a)
	if err != nil {
		return Incorrect, err
	}
	qa, ok := val.(QuizAnswer)
	if !ok {
		return Incorrect, fmt.Errorf("%w: quiz round got %T", ErrAnswerKind, a)
	}
	if Selected(r, qa) == r.CorrectIndex {
		return Correct, nil
	}
	return Incorrect, nil
}

// Selected returns the index of the option a picks, or -1.
func Selected(r content.Round, a QuizAnswer) int {
	for i, o := range r.Options {
		if o == a.Option {
			return i
		}
	}
	return -1
}

func (q Quiz) DispatchFeedback(ctx context.Context, r content.Round, a Answer, res Result) {
	visual := map[string]string{"correct_index": fmt.Sprint(r.CorrectIndex)}
	if qa, ok := deref(a).(QuizAnswer); ok {
		visual["selected_index"] = fmt.Sprint(Selected(r, qa))
	}
	dispatch(ctx, q.Sink, r, res, visual)
}

// Match validates a front/back pairing after Unicode normalisation.
type Match struct {
	Sink FeedbackSink
}

func (Match) Variant() content.Variant { return content.Match }

func (m Match) Validate(r content.Round, a Answer) (Result, error) {
	val, err := checkKind(content.Match, r, a)
	if err != nil {
		return Incorrect, err
	}
	ma, ok := val.(MatchAnswer)
	if !ok {
		return Incorrect, fmt.Errorf("%w: match round got %T", ErrAnswerKind, a)
	}
	if sameText(ma.Front, r.Prompt.Front) && sameText(ma.Back, r.Prompt.Back) {
		return Correct, nil
	}
	return Incorrect, nil
}

func (m Match) DispatchFeedback(ctx context.Context, r content.Round, _ Answer, res Result) {
	dispatch(ctx, m.Sink, r, res, map[string]string{"expected": r.CorrectAnswer})
}

func sameText(a, b string) bool {
	return norm.NFC.String(strings.TrimSpace(a)) == norm.NFC.String(strings.TrimSpace(b))
}

// Swipe validates a judgement of the shown pair.
type Swipe struct {
	Sink FeedbackSink
}

func (Swipe) Variant() content.Variant { return content.Swipe }

func (s Swipe) Validate(r content.Round, a Answer) (Result, error) {
	val, err := checkKind(content.Swipe, r, a)
	if err != nil {
		return Incorrect, err
	}
	sa, ok := val.(SwipeAnswer)
	if !ok {
		return Incorrect, fmt.Errorf("%w: swipe round got %T", ErrAnswerKind, a)
	}
	if sa.Accept == r.IsCorrectPair {
		return Correct, nil
	}
	return Incorrect, nil
}

func (s Swipe) DispatchFeedback(ctx context.Context, r content.Round, a Answer, res Result) {
	visual := map[string]string{"pair": "incorrect"}
	if r.IsCorrectPair {
		visual["pair"] = "correct"
	}
	if sa, ok := deref(a).(SwipeAnswer); ok {
		visual["direction"] = "left"
		if sa.Accept {
			visual["direction"] = "right"
		}
	}
	dispatch(ctx, s.Sink, r, res, visual)
}

// Dispatcher routes each round to the validator for its variant.
type Dispatcher struct {
	validators map[content.Variant]Validator
}

// NewDispatcher builds validators for every variant sharing one sink.
func NewDispatcher(sink FeedbackSink) *Dispatcher {
	d := &Dispatcher{validators: make(map[content.Variant]Validator, len(content.Variants))}
	for _, v := range content.Variants {
		val, _ := ForVariant(v, sink)
		d.validators[v] = val
	}
	return d
}

func (d *Dispatcher) lookup(v content.Variant) (Validator, error) {
	val, ok := d.validators[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return val, nil
}

func (d *Dispatcher) Validate(r content.Round, a Answer) (Result, error) {
	val, err := d.lookup(r.Variant)
	if err != nil {
		return Incorrect, err
	}
	return val.Validate(r, a)
}

func (d *Dispatcher) DispatchFeedback(ctx context.Context, r content.Round, a Answer, res Result) {
	if val, err := d.lookup(r.Variant); err == nil {
		val.DispatchFeedback(ctx, r, a, res)
	}
}
