// Package lyrics parses LRC lyric files and resolves the line to display
// for a playback position.
package lyrics

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is one timed lyric line.
type Line struct {
	At   time.Duration
	Text string
}

// timeTag matches [mm:ss], [mm:ss.xx] and [mm:ss.xxx] stamps. A line may
// carry several stamps sharing one text.
var timeTag = regexp.MustCompile(`\[(\d+):(\d{1,2})(?:\.(\d{1,3}))?\]`)

// Parse reads LRC content and returns the lines sorted by timestamp.
// Metadata tags like [ar:] and [ti:] and malformed lines are skipped.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		matches := timeTag.FindAllStringSubmatchIndex(raw, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(raw[matches[len(matches)-1][1]:])

		for _, m := range matches {
			at, ok := stampFrom(raw, m)
			if !ok {
				continue
			}
			lines = append(lines, Line{At: at, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].At < lines[j].At
	})
	return lines, nil
}

func stampFrom(raw string, m []int) (time.Duration, bool) {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return raw[m[2*i]:m[2*i+1]]
	}

	min, err := strconv.Atoi(group(1))
	if err != nil {
		return 0, false
	}
	sec, err := strconv.Atoi(group(2))
	if err != nil || sec > 59 {
		return 0, false
	}

	at := time.Duration(min)*time.Minute + time.Duration(sec)*time.Second
	if frac := group(3); frac != "" {
		// Fraction digits count determines the unit: .5 is 500ms, .50 too.
		n, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		for i := len(frac); i < 3; i++ {
			n *= 10
		}
		at += time.Duration(n) * time.Millisecond
	}
	return at, true
}

// LineAt returns the index of the line active at pos, or -1 before the
// first stamp. Lines must be sorted as Parse returns them.
func LineAt(lines []Line, pos time.Duration) int {
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].At > pos
	})
	return idx - 1
}

// SidecarPath returns the .lrc path next to an audio file path.
func SidecarPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}

// Load reads the sidecar lyrics for an audio file. A missing sidecar is
// not an error; it returns nil lines.
func Load(audioPath string) ([]Line, error) {
	f, err := os.Open(SidecarPath(audioPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
