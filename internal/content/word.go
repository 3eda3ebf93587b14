// Package content builds learning rounds from a pool of words.
package content

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Word is one flashcard: a front and back text with their locales.
type Word struct {
	ID          string
	Front       string
	Back        string
	FrontLocale string
	BackLocale  string
	Special     bool
}

// Side returns the text on the requested side.
func (w Word) Side(back bool) string {
	if back {
		return w.Back
	}
	return w.Front
}

// Locale returns the locale of the requested side.
func (w Word) Locale(back bool) string {
	if back {
		return w.BackLocale
	}
	return w.FrontLocale
}

// Pool is the ordered set of words rounds are drawn from.
type Pool []Word

// Validate checks that every word has both sides and that locale codes,
// when present, are well-formed BCP 47 tags.
func (p Pool) Validate() error {
	for i, w := range p {
		if strings.TrimSpace(w.Front) == "" || strings.TrimSpace(w.Back) == "" {
			return fmt.Errorf("word %d: front and back are required", i)
		}
		for _, code := range []string{w.FrontLocale, w.BackLocale} {
			if code == "" {
				continue
			}
			if _, err := language.Parse(code); err != nil {
				return fmt.Errorf("word %d: invalid locale %q: %w", i, code, err)
			}
		}
	}
	return nil
}

// Hash identifies the pool's contents, independent of word order.
func (p Pool) Hash() string {
	lines := make([]string, len(p))
	for i, w := range p {
		lines[i] = w.Front + "\x1f" + w.Back
	}
	sort.Strings(lines)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(lines, "\x1e"))))
}

// CanonicalLocale normalises a locale code ("en_us" -> "en-US"). Invalid or
// empty codes are returned unchanged.
func CanonicalLocale(code string) string {
	if code == "" {
		return code
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	return tag.String()
}

// PoolProvider supplies the words for a dictionary or category scope.
type PoolProvider interface {
	Pool(ctx context.Context, scope string) (Pool, error)
}
