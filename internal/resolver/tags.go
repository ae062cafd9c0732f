package resolver

import (
	"path/filepath"
	"strings"
)

// UnknownArtist is the placeholder when a filename carries no artist.
const UnknownArtist = "Unknown Artist"

// SplitTitleArtist derives display metadata from a filename: the extension
// is stripped, and when the remainder contains exactly one " - " separator
// the left part is the artist and the right part the title. Anything more
// ambiguous keeps the whole stem as the title.
func SplitTitleArtist(filename string) (artist, title string) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if strings.Count(stem, " - ") == 1 {
		parts := strings.SplitN(stem, " - ", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return UnknownArtist, stem
}
