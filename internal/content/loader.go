package content

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Deck is a pool loaded from one or more files.
type Deck struct {
	Title   string
	Sources []string
	Words   Pool
}

var (
	separatorRe = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)
	langRe      = regexp.MustCompile(`(?i)^lang:\s*([A-Za-z_-]+)\s*->\s*([A-Za-z_-]+)\s*$`)
	titleRe     = regexp.MustCompile(`(?i)^title:\s*(.+)$`)
)

// LoadDeck loads words from a list of paths (files or directories).
//
// Cards are separated by lines of three or more dashes. A block is either
// one "front | back" card per line, or a single card with the front on the
// first line and the back on the following lines. A leading "*" marks a
// card special. Header lines "title: ..." and "lang: es -> en" apply to the
// rest of the file.
func LoadDeck(paths []string) (Deck, error) {
	var deck Deck

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return Deck{}, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return Deck{}, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if entry.IsDir() {
					continue
				}
				if err := loadFile(filepath.Join(path, entry.Name()), &deck); err != nil {
					return Deck{}, err
				}
			}
		} else if err := loadFile(path, &deck); err != nil {
			return Deck{}, err
		}
	}

	if deck.Title == "" && len(deck.Sources) > 0 {
		deck.Title = titleFromPath(deck.Sources[0])
	}
	if err := deck.Words.Validate(); err != nil {
		return Deck{}, err
	}
	return deck, nil
}

func loadFile(path string, deck *Deck) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var contentBuilder strings.Builder
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		contentBuilder.WriteString(scanner.Text() + "\n")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	deck.Sources = append(deck.Sources, path)
	frontLocale, backLocale := "", ""
	base := filepath.Base(path)
	n := 0

	for _, part := range separatorRe.Split(contentBuilder.String(), -1) {
		var lines []string
		for _, line := range strings.Split(strings.TrimSpace(part), "\n") {
			line = strings.TrimSpace(line)
			if m := langRe.FindStringSubmatch(line); m != nil {
				frontLocale, backLocale = CanonicalLocale(m[1]), CanonicalLocale(m[2])
				continue
			}
			if m := titleRe.FindStringSubmatch(line); m != nil {
				if deck.Title == "" {
					deck.Title = strings.TrimSpace(m[1])
				}
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}

		words, err := parseCards(lines)
		if err != nil {
			return fmt.Errorf("%s card %d: %w", path, n+1, err)
		}
		for _, w := range words {
			n++
			w.ID = fmt.Sprintf("%s#%d", base, n)
			w.FrontLocale, w.BackLocale = frontLocale, backLocale
			deck.Words = append(deck.Words, w)
		}
	}
	return nil
}

// parseCards reads a block where every line is "front | back" as one card
// per line, and anything else as a single multi-line card.
func parseCards(lines []string) ([]Word, error) {
	for _, line := range lines {
		if !strings.Contains(line, "|") {
			w, err := parseCard(lines)
			if err != nil {
				return nil, err
			}
			return []Word{w}, nil
		}
	}
	words := make([]Word, 0, len(lines))
	for _, line := range lines {
		w, err := parseCard([]string{line})
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func parseCard(lines []string) (Word, error) {
	var w Word
	first := lines[0]
	if strings.HasPrefix(first, "*") {
		w.Special = true
		first = strings.TrimSpace(strings.TrimPrefix(first, "*"))
	}

	if len(lines) == 1 {
		front, back, ok := strings.Cut(first, "|")
		if !ok {
			return Word{}, fmt.Errorf("expected \"front | back\", got %q", first)
		}
		w.Front, w.Back = strings.TrimSpace(front), strings.TrimSpace(back)
	} else {
		w.Front = first
		w.Back = strings.Join(lines[1:], "\n")
	}
	if w.Front == "" || w.Back == "" {
		return Word{}, fmt.Errorf("front and back are required")
	}
	return w, nil
}

func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(strings.ReplaceAll(name, "_", " "), "-", " ")
}

// FileProvider loads pools from deck files. The scope is a path list
// joined with the OS list separator, see Scope. Loaded decks are kept so
// their titles stay available.
type FileProvider struct {
	mu    sync.Mutex
	decks map[string]Deck
}

// Scope joins paths into a FileProvider scope.
func Scope(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}

func (p *FileProvider) Pool(ctx context.Context, scope string) (Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deck, err := LoadDeck(filepath.SplitList(scope))
	if err != nil {
		return nil, err
	}
	if len(deck.Words) == 0 {
		return nil, &InsufficientContentError{Need: 1, Have: 0}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.decks == nil {
		p.decks = make(map[string]Deck)
	}
	p.decks[scope] = deck
	return deck.Words, nil
}

// Deck returns the deck last loaded for scope.
func (p *FileProvider) Deck(scope string) (Deck, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.decks[scope]
	return d, ok
}
