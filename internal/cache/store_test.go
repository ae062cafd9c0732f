package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	data := make([]byte, size)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestEntriesListsFiles(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Dir(), "a.mp3", 100)
	writeFile(t, s.Dir(), "b.flac", 250)

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	sizes := map[string]int64{}
	for _, e := range entries {
		sizes[e.Name] = e.SizeBytes
	}
	if sizes["a.mp3"] != 100 {
		t.Errorf("Expected a.mp3 size 100, got %d", sizes["a.mp3"])
	}
	if sizes["b.flac"] != 250 {
		t.Errorf("Expected b.flac size 250, got %d", sizes["b.flac"])
	}
}

func TestEntriesSkipsPartialDownloads(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Dir(), "a.mp3", 10)
	writeFile(t, s.Dir(), ".part-12345", 10)

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "a.mp3" {
		t.Errorf("Expected a.mp3, got %s", entries[0].Name)
	}
}

func TestEntriesSkipsDirectories(t *testing.T) {
	s := newTestStore(t)
	if err := os.Mkdir(filepath.Join(s.Dir(), "sub"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	writeFile(t, s.Dir(), "a.mp3", 10)

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.mp3" {
		t.Errorf("Expected only a.mp3, got %v", entries)
	}
}

func TestTotalSize(t *testing.T) {
	s := newTestStore(t)
	if got := s.TotalSize(); got != 0 {
		t.Errorf("Expected empty cache size 0, got %d", got)
	}

	writeFile(t, s.Dir(), "a.mp3", 100)
	writeFile(t, s.Dir(), "b.flac", 250)
	if got := s.TotalSize(); got != 350 {
		t.Errorf("Expected total size 350, got %d", got)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Dir(), "a.mp3", 10)

	if err := s.Remove("a.mp3"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "a.mp3")); !os.IsNotExist(err) {
		t.Errorf("Expected file removed, stat err %v", err)
	}
}

func TestRemoveStripsPathComponents(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Dir(), "a.mp3", 10)

	if err := s.Remove("../a.mp3"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "a.mp3")); !os.IsNotExist(err) {
		t.Errorf("Expected file inside cache removed, stat err %v", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Dir(), "a.mp3", 10)
	writeFile(t, s.Dir(), "b.flac", 20)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", len(entries))
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected cache directory created, stat err %v", err)
	}
}

func TestIsPartial(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".part-abc123", true},
		{"track.mp3", false},
		{"part-abc", false},
	}
	for _, tt := range tests {
		if got := isPartial(tt.name); got != tt.want {
			t.Errorf("isPartial(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
