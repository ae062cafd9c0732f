// Package cache manages the local track cache directory: enumeration, total
// size, and clearing. A filesystem watcher keeps subscribers informed when
// cached files appear or vanish outside the app's own writes.
package cache

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davplay/davplay/internal/event"
)

// Entry describes one cached track file.
type Entry struct {
	Name      string
	SizeBytes int64
	ModTime   time.Time
}

// Store is the cache directory handle. It owns no in-memory index; the
// directory is the source of truth and reads go straight to it.
type Store struct {
	dir     string
	bus     *event.Bus
	watcher *fsnotify.Watcher
}

// New ensures dir exists and starts watching it. The watcher is best-effort:
// when it cannot be established the store still works, only change
// notifications are lost.
func New(dir string, bus *event.Bus) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{dir: dir, bus: bus}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("cache: watcher unavailable: %v", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("cache: cannot watch %s: %v", dir, err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Entries lists the cached files, skipping in-progress downloads.
func (s *Store) Entries() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() || isPartial(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:      de.Name(),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	return entries, nil
}

// TotalSize returns the combined size of all cached files.
func (s *Store) TotalSize() int64 {
	entries, err := s.Entries()
	if err != nil {
		return 0
	}
	var total int64
	for _, e := range entries {
		total += e.SizeBytes
	}
	return total
}

// Remove deletes one cached file by name.
func (s *Store) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

// Clear deletes every cached file. Partial failures abort with the first
// error; already-removed files do not count as failures.
func (s *Store) Clear() error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.Remove(e.Name); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close stops the filesystem watcher.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *Store) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if isPartial(filepath.Base(ev.Name)) {
				continue
			}
			if s.bus != nil {
				s.bus.Publish()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("cache: watch error: %v", err)
		}
	}
}

// isPartial matches the temp names the resolver writes before renaming.
func isPartial(name string) bool {
	return strings.HasPrefix(name, ".part-")
}
