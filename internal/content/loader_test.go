package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDeck_SingleFile(t *testing.T) {
	path := createTempFile(t, "hola | hello")

	deck, err := LoadDeck([]string{path})
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if len(deck.Words) != 1 {
		t.Fatalf("Expected 1 word, got %d", len(deck.Words))
	}
	w := deck.Words[0]
	if w.Front != "hola" || w.Back != "hello" {
		t.Errorf("Word mismatch: %+v", w)
	}
	if w.ID != filepath.Base(path)+"#1" {
		t.Errorf("Unexpected ID %q", w.ID)
	}
}

func TestLoadDeck_BlocksAndHeaders(t *testing.T) {
	content := `title: Spanish Basics
lang: es -> en_us
hola | hello
*perro | dog
---
gato
cat
---------
adiós | goodbye`
	path := createTempFile(t, content)

	deck, err := LoadDeck([]string{path})
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if deck.Title != "Spanish Basics" {
		t.Errorf("Title mismatch: %q", deck.Title)
	}
	if len(deck.Words) != 4 {
		t.Fatalf("Expected 4 words, got %d", len(deck.Words))
	}

	if !deck.Words[1].Special || deck.Words[1].Front != "perro" {
		t.Errorf("Second word should be special 'perro': %+v", deck.Words[1])
	}
	if deck.Words[2].Front != "gato" || deck.Words[2].Back != "cat" {
		t.Errorf("Multi-line card mismatch: %+v", deck.Words[2])
	}
	for _, w := range deck.Words {
		if w.FrontLocale != "es" || w.BackLocale != "en-US" {
			t.Errorf("Locale mismatch on %q: %s -> %s", w.Front, w.FrontLocale, w.BackLocale)
		}
	}
	if deck.Words[3].ID != filepath.Base(path)+"#4" {
		t.Errorf("Expected sequential IDs, got %q", deck.Words[3].ID)
	}
}

func TestLoadDeck_Directory(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "f1.txt"), []byte("a | 1"), 0644)
	os.WriteFile(filepath.Join(dir, "f2.txt"), []byte("b | 2\n---\nc | 3"), 0644)

	deck, err := LoadDeck([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(deck.Words) != 3 {
		t.Errorf("Expected 3 words, got %d", len(deck.Words))
	}
	if deck.Title != "f1" {
		t.Errorf("Title should fall back to the first file name, got %q", deck.Title)
	}
}

func TestLoadDeck_MalformedCard(t *testing.T) {
	path := createTempFile(t, "just a front")
	if _, err := LoadDeck([]string{path}); err == nil {
		t.Error("Expected an error for a card without a back")
	}
}

func TestLoadDeck_MissingPath(t *testing.T) {
	if _, err := LoadDeck([]string{filepath.Join(t.TempDir(), "nope.txt")}); err == nil {
		t.Error("Expected an error for a missing path")
	}
}

func TestFileProvider_EmptyDeck(t *testing.T) {
	path := createTempFile(t, "---\n\n---")
	_, err := (&FileProvider{}).Pool(context.Background(), path)

	var insufficient *InsufficientContentError
	if !errors.As(err, &insufficient) {
		t.Errorf("Expected InsufficientContentError, got %v", err)
	}
}

func TestFileProvider_KeepsDeck(t *testing.T) {
	first := createTempFile(t, "title: Numbers\nuno | one\ndos | two")
	second := filepath.Join(t.TempDir(), "more.txt")
	if err := os.WriteFile(second, []byte("tres | three"), 0644); err != nil {
		t.Fatal(err)
	}
	scope := Scope([]string{first, second})

	var provider PoolProvider = &FileProvider{}
	pool, err := provider.Pool(context.Background(), scope)
	if err != nil {
		t.Fatalf("Pool failed: %v", err)
	}
	if len(pool) != 3 {
		t.Errorf("Expected 3 words across both files, got %d", len(pool))
	}

	deck, ok := provider.(*FileProvider).Deck(scope)
	if !ok {
		t.Fatal("Expected the loaded deck to be kept")
	}
	if deck.Title != "Numbers" || len(deck.Sources) != 2 {
		t.Errorf("Unexpected deck %+v", deck)
	}
	if _, ok := provider.(*FileProvider).Deck("other"); ok {
		t.Error("Unknown scope should have no deck")
	}
}

func TestFileProvider_CanceledContext(t *testing.T) {
	path := createTempFile(t, "uno | one")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&FileProvider{}).Pool(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck_test.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
