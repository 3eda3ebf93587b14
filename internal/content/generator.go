package content

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"go-flash/internal/clock"
)

// Direction selects which side of a word is the prompt.
type Direction int

const (
	FrontToBack Direction = iota
	BackToFront
	Mixed
)

const (
	DefaultChoices      = 4
	DefaultRepeatWindow = 1
)

// Options tunes round generation.
type Options struct {
	Choices       int // quiz options including the correct one
	RepeatWindow  int // recent prompts excluded from the next pick; at least 1
	Direction     Direction
	SwipeBias     *float64 // probability a swipe pair is correct; nil means 0.5
	SpecialChance float64  // chance a round is special regardless of the word flag
}

func (o Options) withDefaults() Options {
	if o.Choices < 2 {
		o.Choices = DefaultChoices
	}
	if o.RepeatWindow < 1 {
		o.RepeatWindow = DefaultRepeatWindow
	}
	return o
}

// Generator builds rounds from a fixed pool. It is safe for concurrent use.
type Generator struct {
	pool  Pool
	opts  Options
	clock clock.Clock

	mu     sync.Mutex
	rng    *rand.Rand
	recent []int
	seq    int
}

// NewGenerator creates a Generator. A nil rng is seeded from the clock.
func NewGenerator(pool Pool, opts Options, rng *rand.Rand, c clock.Clock) *Generator {
	if c == nil {
		c = clock.Real{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(c.Now().UnixNano()))
	}
	return &Generator{
		pool:  append(Pool(nil), pool...),
		opts:  opts.withDefaults(),
		clock: c,
		rng:   rng,
	}
}

// Reset forgets the recently presented prompts.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recent = nil
}

// Next builds the next round for v.
func (g *Generator) Next(v Variant) (Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.pool) < v.minPool() {
		return Round{}, &InsufficientContentError{Variant: v, Need: v.minPool(), Have: len(g.pool)}
	}

	idx := g.pickPrompt()
	word := g.pool[idx]
	answerBack := g.answerBack()

	r := Round{
		Variant:       v,
		Prompt:        word,
		PromptText:    word.Side(!answerBack),
		PromptLocale:  word.Locale(!answerBack),
		AnswerBack:    answerBack,
		CorrectAnswer: word.Side(answerBack),
		AnswerLocale:  word.Locale(answerBack),
		Special:       word.Special || (g.opts.SpecialChance > 0 && g.rng.Float64() < g.opts.SpecialChance),
	}

	switch v {
	case Quiz:
		if err := g.fillQuiz(&r, idx); err != nil {
			return Round{}, err
		}
	case Swipe:
		g.fillSwipe(&r, idx)
	}

	g.remember(idx)
	g.seq++
	r.Seq = g.seq
	r.ID = uuid.NewString()
	r.PresentedAt = g.clock.Now()
	return r, nil
}

// pickPrompt chooses a word index, skipping recent prompts while the pool
// is larger than the exclusion window.
func (g *Generator) pickPrompt() int {
	window := g.opts.RepeatWindow
	if window > len(g.pool)-1 {
		window = len(g.pool) - 1
	}
	excluded := make(map[int]bool, window)
	for i := len(g.recent) - 1; i >= 0 && len(excluded) < window; i-- {
		excluded[g.recent[i]] = true
	}

	candidates := make([]int, 0, len(g.pool))
	for i := range g.pool {
		if !excluded[i] {
			candidates = append(candidates, i)
		}
	}
	return candidates[g.rng.Intn(len(candidates))]
}

func (g *Generator) remember(idx int) {
	g.recent = append(g.recent, idx)
	if keep := g.opts.RepeatWindow; len(g.recent) > keep {
		g.recent = append([]int(nil), g.recent[len(g.recent)-keep:]...)
	}
}

func (g *Generator) answerBack() bool {
	switch g.opts.Direction {
	case BackToFront:
		return false
	case Mixed:
		return g.rng.Intn(2) == 0
	}
	return true
}

// fillQuiz samples distinct distractors from the other words and shuffles
// them in with the correct answer.
func (g *Generator) fillQuiz(r *Round, idx int) error {
	want := g.opts.Choices - 1
	correct := norm.NFC.String(r.CorrectAnswer)
	seen := map[string]bool{correct: true}

	for _, j := range g.rng.Perm(len(g.pool)) {
		if len(r.Distractors) == want {
			break
		}
		if j == idx {
			continue
		}
		text := g.pool[j].Side(r.AnswerBack)
		key := norm.NFC.String(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		r.Distractors = append(r.Distractors, text)
	}
	if len(r.Distractors) == 0 {
		return &InsufficientContentError{Variant: Quiz, Need: 2, Have: len(seen)}
	}

	r.Options = append([]string{r.CorrectAnswer}, r.Distractors...)
	g.rng.Shuffle(len(r.Options), func(i, j int) {
		r.Options[i], r.Options[j] = r.Options[j], r.Options[i]
	})
	for i, o := range r.Options {
		if o == r.CorrectAnswer {
			r.CorrectIndex = i
			break
		}
	}
	return nil
}

// fillSwipe decides whether the shown pair is correct. A forced-incorrect
// pair borrows the answer of a different word with different text; when no
// such word exists the pair falls back to correct.
func (g *Generator) fillSwipe(r *Round, idx int) {
	bias := 0.5
	if g.opts.SwipeBias != nil {
		bias = *g.opts.SwipeBias
	}
	r.ShownAnswer = r.CorrectAnswer
	r.IsCorrectPair = true
	if g.rng.Float64() < bias {
		return
	}

	correct := norm.NFC.String(r.CorrectAnswer)
	var others []int
	for j, w := range g.pool {
		if j != idx && norm.NFC.String(w.Side(r.AnswerBack)) != correct {
			others = append(others, j)
		}
	}
	if len(others) == 0 {
		return
	}
	r.ShownAnswer = g.pool[others[g.rng.Intn(len(others))]].Side(r.AnswerBack)
	r.IsCorrectPair = false
}
