package scoring

import (
	"fmt"
	"sort"
	"sync"
)

// ResultEntry is one finished game as persisted by a ScoreStorage.
type ResultEntry struct {
	SessionID  string  `json:"session_id"`
	Hash       string  `json:"hash"`
	Title      string  `json:"title"`
	Mode       string  `json:"mode"`
	Variant    string  `json:"variant"`
	Score      int     `json:"score"`
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	BestStreak int     `json:"best_streak"`
	Accuracy   float64 `json:"accuracy"`
	EndReason  string  `json:"end_reason"`
	Timestamp  string  `json:"timestamp"`
}

// History holds the results recorded for one deck in one mode, including
// anything saved during this run.
type History struct {
	mu      sync.Mutex
	storage ScoreStorage
	hash    string
	mode    string
	entries []ResultEntry
	prior   int
	high    *ResultEntry
	last    *ResultEntry
}

// LoadHistory reads every stored result and keeps those matching hash and mode.
func LoadHistory(hash, mode string, storage ScoreStorage) (*History, error) {
	all, err := storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load score history: %w", err)
	}

	h := &History{storage: storage, hash: hash, mode: mode}
	for _, e := range all {
		if e.Hash == hash && e.Mode == mode {
			h.entries = append(h.entries, e)
		}
	}
	h.prior = len(h.entries)
	h.refreshHigh()
	return h, nil
}

func (h *History) refreshHigh() {
	h.high = nil
	for i := range h.entries {
		if h.high == nil || h.entries[i].Score > h.high.Score {
			e := h.entries[i]
			h.high = &e
		}
	}
}

// Save persists entry alongside every other stored result. The entry is
// stamped with this history's deck hash and mode.
func (h *History) Save(entry ResultEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry.Hash = h.hash
	entry.Mode = h.mode

	all, err := h.storage.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load scores for saving: %w", err)
	}
	if err := h.storage.SaveAll(append(all, entry)); err != nil {
		return fmt.Errorf("could not save scores: %w", err)
	}

	// The high score shown after a game is the one that stood before it.
	h.refreshHigh()
	h.entries = append(h.entries, entry)
	h.last = &h.entries[len(h.entries)-1]
	return nil
}

// Attempts is the number of results stored before this run.
func (h *History) Attempts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prior
}

// HighScore returns the best result excluding the most recent save.
func (h *History) HighScore() *ResultEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.high
}

// GotHighScore reports whether the last saved result matches or beats the
// previous best. It is vacuously true when there is nothing to compare.
func (h *History) GotHighScore() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.high == nil || h.last == nil {
		return true
	}
	return h.last.Score >= h.high.Score
}

// Top returns the best n results, highest first. A negative n yields none.
func (h *History) Top(n int) []ResultEntry {
	h.mu.Lock()
	entries := make([]ResultEntry, len(h.entries))
	copy(entries, h.entries)
	h.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	n = min(max(n, 0), len(entries))
	return entries[:n]
}
