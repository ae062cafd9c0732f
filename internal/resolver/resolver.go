package resolver

// Package resolver converts a remote file entry into a playable track. The
// fallback policy is an ordered list of strategies tried until one succeeds:
// local cache hit, direct authenticated download, fetch through the WebDAV
// handle, and finally a remote streaming URL.

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/remote"
)

// DownloadTimeout bounds a full-content cache materialization.
const DownloadTimeout = 60 * time.Second

// ErrUnresolvable means every resolution strategy was exhausted. Callers
// surface it as a user-visible, non-fatal error.
var ErrUnresolvable = errors.New("track could not be resolved")

// SessionSource supplies the active session and the stale-session guard.
// *remote.Manager implements it.
type SessionSource interface {
	Session() *remote.Session
	Active(s *remote.Session) bool
}

// Resolver materializes remote files into the local cache, falling back to
// remote streaming when it cannot.
type Resolver struct {
	source      SessionSource
	cacheDir    string
	httpc       *http.Client
	allowStream func() bool
}

// New creates a resolver caching downloads under cacheDir.
func New(source SessionSource, cacheDir string) *Resolver {
	return &Resolver{
		source:   source,
		cacheDir: cacheDir,
		httpc:    &http.Client{},
	}
}

// SetStreamPolicy installs a predicate consulted before the streaming
// fallback is attempted. A nil policy allows streaming.
func (r *Resolver) SetStreamPolicy(allow func() bool) {
	r.allowStream = allow
}

// strategy is one resolution step: a pure function from entry plus session
// to a playable track.
type strategy struct {
	name string
	run  func(ctx context.Context, rec model.FileEntry, sess *remote.Session) (model.Track, error)
}

func (r *Resolver) strategies() []strategy {
	list := []strategy{
		{"cache-hit", r.cacheHit},
		{"direct-download", r.directDownload},
		{"client-fetch", r.clientFetch},
	}
	if r.allowStream == nil || r.allowStream() {
		list = append(list, strategy{"stream-fallback", r.streamFallback})
	}
	return list
}

// Resolve tries each strategy in order and returns the first success.
// Resolution never mutates the entry and is idempotent: once a call
// materializes the cache file, later calls short-circuit on the cache hit.
func (r *Resolver) Resolve(ctx context.Context, rec model.FileEntry) (model.Track, error) {
	sess := r.source.Session()
	if sess == nil {
		return model.Track{}, remote.ErrNoSession
	}

	for _, s := range r.strategies() {
		track, err := s.run(ctx, rec, sess)
		if err != nil {
			log.Printf("resolver: %s for %s: %v", s.name, rec.Path, err)
			continue
		}
		// The session may have been replaced while a transfer ran; a track
		// built against the old one must not be handed out.
		if !r.source.Active(sess) {
			return model.Track{}, remote.ErrNoSession
		}
		return track, nil
	}
	return model.Track{}, fmt.Errorf("%w: %s", ErrUnresolvable, rec.Path)
}

// CachePath returns the deterministic local path an entry materializes to.
func (r *Resolver) CachePath(rec model.FileEntry) string {
	return filepath.Join(r.cacheDir, rec.Basename)
}

func (r *Resolver) cacheHit(_ context.Context, rec model.FileEntry, _ *remote.Session) (model.Track, error) {
	p := r.CachePath(rec)
	info, err := os.Stat(p)
	if err != nil {
		return model.Track{}, err
	}
	if info.IsDir() {
		return model.Track{}, fmt.Errorf("cache path %s is a directory", p)
	}
	return localTrack(rec, p), nil
}

func (r *Resolver) directDownload(ctx context.Context, rec model.FileEntry, sess *remote.Session) (model.Track, error) {
	target, err := RemoteURL(sess.Config.URL, rec.Filename)
	if err != nil {
		return model.Track{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return model.Track{}, err
	}
	if sess.Config.Username != "" {
		req.SetBasicAuth(sess.Config.Username, sess.Config.Password)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return model.Track{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Track{}, remote.StatusToError(resp.StatusCode)
	}

	p := r.CachePath(rec)
	if err := r.writeCache(resp.Body, p); err != nil {
		return model.Track{}, err
	}
	return localTrack(rec, p), nil
}

// clientFetch retrieves the content through the session's WebDAV handle. The
// transport is the same as the direct download but the code path differs,
// which sidesteps occasional server quirks with plain GETs.
func (r *Resolver) clientFetch(_ context.Context, rec model.FileEntry, sess *remote.Session) (model.Track, error) {
	rc, err := sess.Client.ReadStream(rec.Filename)
	if err != nil {
		return model.Track{}, err
	}
	defer rc.Close()

	p := r.CachePath(rec)
	if err := r.writeCache(rc, p); err != nil {
		return model.Track{}, err
	}
	return localTrack(rec, p), nil
}

// streamFallback defers the whole transfer to the playback engine. The URL
// carries escaped userinfo for engines that only accept a bare URL; the
// Authorization header value is supplied alongside so capable playback paths
// avoid credentials in the URL.
func (r *Resolver) streamFallback(_ context.Context, rec model.FileEntry, sess *remote.Session) (model.Track, error) {
	u, err := url.Parse(sess.Config.URL)
	if err != nil {
		return model.Track{}, err
	}
	if u.Scheme == "" || u.Host == "" {
		return model.Track{}, fmt.Errorf("base url %q is not absolute", sess.Config.URL)
	}
	if sess.Config.Username != "" {
		u.User = url.UserPassword(sess.Config.Username, sess.Config.Password)
	}
	u.Path = path.Join(u.Path, strings.TrimPrefix(rec.Filename, "/"))

	track := remoteTrack(rec, u.String())
	if sess.Config.Username != "" {
		creds := sess.Config.Username + ":" + sess.Config.Password
		track.AuthHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}
	return track, nil
}

// writeCache materializes content under the cache directory, writing to a
// temp file first so a partial transfer never surfaces as a cache hit.
func (r *Resolver) writeCache(src io.Reader, dst string) error {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.cacheDir, ".part-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// RemoteURL builds the absolute remote URL for a file path against the
// session's base URL.
func RemoteURL(base, remotePath string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", base)
	}
	u.Path = path.Join(u.Path, strings.TrimPrefix(remotePath, "/"))
	return u.String(), nil
}

func localTrack(rec model.FileEntry, localPath string) model.Track {
	artist, title := SplitTitleArtist(rec.Basename)
	return model.Track{
		ID:           rec.Path,
		SourceURL:    localPath,
		Title:        title,
		Artist:       artist,
		DurationMS:   0, // resolved lazily by the playback engine
		IsLocalCache: true,
	}
}

func remoteTrack(rec model.FileEntry, remoteURL string) model.Track {
	artist, title := SplitTitleArtist(rec.Basename)
	return model.Track{
		ID:           rec.Path,
		SourceURL:    remoteURL,
		Title:        title,
		Artist:       artist,
		DurationMS:   0,
		IsLocalCache: false,
	}
}
