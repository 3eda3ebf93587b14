package scoring

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ScoreStorage persists every recorded result across decks and modes.
type ScoreStorage interface {
	LoadAll() ([]ResultEntry, error)
	// SaveAll replaces the stored results with entries.
	SaveAll(entries []ResultEntry) error
}

// JSONFileStorage keeps results as JSON lines in a single file.
type JSONFileStorage struct {
	path string
}

// DefaultScorePath returns ~/.config/go-flash/<name>.
func DefaultScorePath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "go-flash", name), nil
}

// NewJSONFileStorage creates a JSONFileStorage at path, or at the default
// location when path is empty.
func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if path == "" {
		p, err := DefaultScorePath("scores.json")
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &JSONFileStorage{path: path}, nil
}

// LoadAll reads one result per line. A missing file holds no results;
// blank lines are skipped.
func (jfs *JSONFileStorage) LoadAll() ([]ResultEntry, error) {
	file, err := os.Open(jfs.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []ResultEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open results %s: %w", jfs.path, err)
	}
	defer file.Close()

	entries := make([]ResultEntry, 0)
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var entry ResultEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", jfs.path, line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results %s: %w", jfs.path, err)
	}
	return entries, nil
}

// SaveAll replaces the file with entries. The new contents are written to a
// temporary file in the same directory and renamed over the old one, so a
// failed save leaves the previous results intact.
func (jfs *JSONFileStorage) SaveAll(entries []ResultEntry) error {
	dir := filepath.Dir(jfs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for results: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(jfs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary results file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for i, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			tmp.Close()
			return fmt.Errorf("encode result %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Rename(tmp.Name(), jfs.path); err != nil {
		return fmt.Errorf("replace results %s: %w", jfs.path, err)
	}
	return nil
}
