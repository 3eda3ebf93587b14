package scoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONFileStorage_SaveAndLoad(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "nested", "scores.json")
	storage, err := NewJSONFileStorage(testPath)
	if err != nil {
		t.Fatalf("NewJSONFileStorage returned error: %v", err)
	}

	// 1. Load on non-existent file returns empty
	entries, err := storage.LoadAll()
	if err != nil {
		t.Errorf("LoadAll on non-existent file returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(entries))
	}

	// 2. Save creates the directory and file
	testEntries := []ResultEntry{
		{Hash: "abc", Mode: "survival", Score: 100, Title: "Test1", Timestamp: "2023-01-01"},
		{Hash: "def", Mode: "time", Score: 200, Title: "Test2", Timestamp: "2023-01-02"},
	}
	if err := storage.SaveAll(testEntries); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Errorf("File was not created at %s", testPath)
	}

	// 3. Load returns saved entries
	loaded, err := storage.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(loaded) != len(testEntries) {
		t.Fatalf("Expected %d entries, got %d", len(testEntries), len(loaded))
	}
	if loaded[0].Hash != "abc" || loaded[1].Score != 200 || loaded[1].Mode != "time" {
		t.Errorf("Loaded content mismatch. Got: %+v", loaded)
	}
}

func TestJSONFileStorage_CorruptFile(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(testPath, []byte("{ not valid json }"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	storage := &JSONFileStorage{path: testPath}
	if _, err := storage.LoadAll(); err == nil {
		t.Error("Expected error when loading corrupt file, got nil")
	}
}

func TestJSONFileStorage_EmptyFile(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(testPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write empty file: %v", err)
	}

	storage := &JSONFileStorage{path: testPath}
	entries, err := storage.LoadAll()
	if err != nil {
		t.Errorf("LoadAll on empty file returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries from empty file, got %d", len(entries))
	}
}

func TestJSONFileStorage_SkipsBlankLines(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "scores.json")
	data := "{\"hash\":\"abc\",\"score\":10}\n\n{\"hash\":\"abc\",\"score\":20}\n"
	if err := os.WriteFile(testPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := (&JSONFileStorage{path: testPath}).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(entries) != 2 || entries[1].Score != 20 {
		t.Errorf("Unexpected entries %+v", entries)
	}
}

func TestJSONFileStorage_ReportsBadLine(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "scores.json")
	data := "{\"score\":10}\n{\"score\":\n"
	if err := os.WriteFile(testPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := (&JSONFileStorage{path: testPath}).LoadAll()
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected an error naming line 2, got %v", err)
	}
}

func TestJSONFileStorage_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	storage := &JSONFileStorage{path: filepath.Join(dir, "scores.json")}

	if err := storage.SaveAll([]ResultEntry{{Score: 1}, {Score: 2}}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	if err := storage.SaveAll([]ResultEntry{{Score: 3}}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	entries, err := storage.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 3 {
		t.Errorf("Expected the second save to replace the first, got %+v", entries)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("Temporary files were left behind: %v", files)
	}
}
