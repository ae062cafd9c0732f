package model

import (
	"sort"
	"time"
)

// EntryKind distinguishes files from directories in a remote listing.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
)

// FileEntry is an immutable snapshot of one remote directory-listing entry.
// Entries are regenerated on every listing fetch and never mutated in place.
type FileEntry struct {
	Filename     string // full remote path, e.g. "/music/album/track.mp3"
	Basename     string // leaf name, e.g. "track.mp3"
	LastModified time.Time
	SizeBytes    int64
	Kind         EntryKind
	MIMEType     string // as declared by the server, may be empty
	ETag         string // may be empty
	Path         string // normalized app-relative path used as a stable key
}

// IsDir returns true for directory entries.
func (e FileEntry) IsDir() bool {
	return e.Kind == EntryDirectory
}

// SortEntries orders a listing for presentation: directories before files,
// then case-sensitive lexicographic by basename. The lister itself returns
// entries in server order; callers apply this before display.
func SortEntries(entries []FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Basename < entries[j].Basename
	})
}
