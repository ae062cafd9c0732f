package model

// Track is a resolved, playback-ready representation of a remote file. It is
// a transient view derived from a FileEntry plus the active session's
// credentials; it is handed straight to the playback layer and never
// persisted.
type Track struct {
	ID           string // stable key, the entry's normalized path
	SourceURL    string // local file path when cached, remote URL otherwise
	Title        string
	Artist       string
	Album        string
	Artwork      string
	DurationMS   int // 0 means unknown; resolved lazily by the playback engine
	IsLocalCache bool

	// AuthHeader carries the Authorization header value for the streaming
	// fallback so the playback path does not have to rely on credentials
	// embedded in SourceURL.
	AuthHeader string
}
