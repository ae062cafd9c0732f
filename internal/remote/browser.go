package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davplay/davplay/internal/model"
)

// DefaultListTimeout bounds a single directory enumeration.
const DefaultListTimeout = 20 * time.Second

// playableExts is the fixed audio allow-list.
var playableExts = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".ogg":  {},
	".m4a":  {},
	".aac":  {},
}

// ListOptions tune a directory enumeration.
type ListOptions struct {
	// OnlyPlayableMedia drops file entries that are not audio. Directories
	// are always kept.
	OnlyPlayableMedia bool

	// Timeout overrides DefaultListTimeout when positive.
	Timeout time.Duration
}

// Browser enumerates remote directories through the active session.
type Browser struct {
	mgr *Manager
}

// NewBrowser creates a browser over mgr's session.
func NewBrowser(mgr *Manager) *Browser {
	return &Browser{mgr: mgr}
}

// List enumerates one remote directory and maps each raw entry into a
// FileEntry. Entries come back in server order; callers apply
// model.SortEntries for presentation. Fails with ErrNoSession when
// disconnected and ErrTimeout when the enumeration exceeds its bound.
func (b *Browser) List(ctx context.Context, path string, opts ListOptions) ([]model.FileEntry, error) {
	sess := b.mgr.Session()
	if sess == nil {
		return nil, ErrNoSession
	}
	if path == "" {
		path = "/"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultListTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		infos []os.FileInfo
		err   error
	}
	done := make(chan result, 1)
	go func() {
		infos, err := sess.Client.ReadDir(path)
		done <- result{infos, err}
	}()

	var infos []os.FileInfo
	select {
	case r := <-done:
		if r.err != nil {
			return nil, wrapClass(r.err, "list "+path)
		}
		infos = r.infos
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, wrapClass(ErrTimeout, "list "+path)
		}
		return nil, ctx.Err()
	}

	// The session may have been superseded while the call was in flight;
	// results fetched under the old one must not be applied.
	if !b.mgr.Active(sess) {
		return nil, ErrNoSession
	}

	entries := make([]model.FileEntry, 0, len(infos))
	for _, fi := range infos {
		e := entryFrom(path, fi)
		if opts.OnlyPlayableMedia && !e.IsDir() && !IsPlayableMedia(e.Basename, e.MIMEType) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListAll recursively aggregates the playable media files under path,
// current level first, then each sub-directory in listing order. Any error
// in a sub-branch aborts the whole aggregation with no partial result.
func (b *Browser) ListAll(ctx context.Context, path string, opts ListOptions) ([]model.FileEntry, error) {
	opts.OnlyPlayableMedia = true

	level, err := b.List(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	var out []model.FileEntry
	var dirs []model.FileEntry
	for _, e := range level {
		if e.IsDir() {
			dirs = append(dirs, e)
			continue
		}
		out = append(out, e)
	}

	for _, d := range dirs {
		sub, err := b.ListAll(ctx, d.Filename, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// IsPlayableMedia reports whether a file entry looks like playable audio,
// either by declared media type or by filename extension.
func IsPlayableMedia(basename, mimeType string) bool {
	if strings.HasPrefix(mimeType, "audio/") {
		return true
	}
	_, ok := playableExts[strings.ToLower(filepath.Ext(basename))]
	return ok
}

// JoinRemotePath joins a listing path with an entry leaf name, treating the
// root as "/" with no double slash.
func JoinRemotePath(dir, leaf string) string {
	if dir == "" || dir == "/" {
		return "/" + leaf
	}
	return strings.TrimSuffix(dir, "/") + "/" + leaf
}

func entryFrom(dir string, fi os.FileInfo) model.FileEntry {
	kind := model.EntryFile
	if fi.IsDir() {
		kind = model.EntryDirectory
	}

	// gowebdav's FileInfo carries these beyond the os.FileInfo contract.
	var mimeType, etag string
	if ct, ok := fi.(interface{ ContentType() string }); ok {
		mimeType = ct.ContentType()
	}
	if et, ok := fi.(interface{ ETag() string }); ok {
		etag = et.ETag()
	}

	full := JoinRemotePath(dir, fi.Name())
	return model.FileEntry{
		Filename:     full,
		Basename:     fi.Name(),
		LastModified: fi.ModTime(),
		SizeBytes:    fi.Size(),
		Kind:         kind,
		MIMEType:     mimeType,
		ETag:         etag,
		Path:         full,
	}
}
