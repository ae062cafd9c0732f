package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/model"
)

// ServersKey is the preferences key holding the serialized server list.
const ServersKey = "webdav_servers"

var (
	// ErrNotFound means the given id matches no stored server.
	ErrNotFound = errors.New("server not found")

	// ErrConfigInvalid means the config has a missing name or a malformed URL.
	ErrConfigInvalid = errors.New("invalid server config")
)

// Store is the key-value persistence the registry writes through. It is the
// subset of fyne.Preferences the app uses, so tests can substitute a map.
type Store interface {
	String(key string) string
	SetString(key, value string)
}

// SessionHook lets the registry notify the connection layer when the active
// server's config is mutated, without depending on it directly.
type SessionHook interface {
	// ActiveServerID returns the id of the connected server, or "".
	ActiveServerID() string
	// Reconnect re-establishes the session with an updated config.
	Reconnect(cfg model.ServerConfig) error
	// Disconnect tears down the active session.
	Disconnect()
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Name     *string
	URL      *string
	Username *string
	Password *string
}

// Registry owns the persisted list of WebDAV server configurations. Every
// mutation is written through to the store before it is committed in memory,
// and fans out on the bus after persistence succeeds.
type Registry struct {
	mu      sync.Mutex
	store   Store
	bus     *event.Bus
	hook    SessionHook
	servers []model.ServerConfig
}

// New loads the persisted server list from the store. A corrupt payload is
// logged and treated as empty rather than failing startup.
func New(store Store, bus *event.Bus) *Registry {
	r := &Registry{store: store, bus: bus}

	raw := store.String(ServersKey)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &r.servers); err != nil {
			log.Printf("registry: discarding unreadable server list: %v", err)
			r.servers = nil
		}
	}
	return r
}

// SetSessionHook wires the connection layer in. Must be called before any
// mutation that can touch the active server.
func (r *Registry) SetSessionHook(h SessionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = h
}

// List returns a copy of all stored configs.
func (r *Registry) List() []model.ServerConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ServerConfig, len(r.servers))
	copy(out, r.servers)
	return out
}

// Get returns the config with the given id.
func (r *Registry) Get(id string) (model.ServerConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.servers {
		if s.ID == id {
			return s, nil
		}
	}
	return model.ServerConfig{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add validates cfg, assigns a fresh id and appends it. Any id supplied by
// the caller is ignored.
func (r *Registry) Add(cfg model.ServerConfig) (string, error) {
	if err := Validate(cfg); err != nil {
		return "", err
	}

	r.mu.Lock()
	cfg.ID = newID()
	next := append(copySlice(r.servers), cfg)
	if err := r.persist(next); err != nil {
		r.mu.Unlock()
		return "", err
	}
	r.servers = next
	r.mu.Unlock()

	r.publish()
	return cfg.ID, nil
}

// Update applies a partial update to the config with the given id. If that
// server is currently connected, the session is re-established with the new
// config; a reconnect failure is logged but never rolls back the persisted
// update.
func (r *Registry) Update(id string, patch Patch) error {
	r.mu.Lock()

	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := r.servers[idx]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.URL != nil {
		updated.URL = *patch.URL
	}
	if patch.Username != nil {
		updated.Username = *patch.Username
	}
	if patch.Password != nil {
		updated.Password = *patch.Password
	}
	if err := Validate(updated); err != nil {
		r.mu.Unlock()
		return err
	}

	next := copySlice(r.servers)
	next[idx] = updated
	if err := r.persist(next); err != nil {
		r.mu.Unlock()
		return err
	}
	r.servers = next
	hook := r.hook
	r.mu.Unlock()

	r.publish()

	if hook != nil && hook.ActiveServerID() == id {
		go func() {
			if err := hook.Reconnect(updated); err != nil {
				log.Printf("registry: reconnect after update of %s failed: %v", id, err)
			}
		}()
	}
	return nil
}

// Delete removes the config with the given id. If that server is currently
// connected its session is torn down first.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	hook := r.hook
	r.mu.Unlock()

	if hook != nil && hook.ActiveServerID() == id {
		hook.Disconnect()
	}

	r.mu.Lock()
	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := append(copySlice(r.servers[:idx]), r.servers[idx+1:]...)
	if err := r.persist(next); err != nil {
		r.mu.Unlock()
		return err
	}
	r.servers = next
	r.mu.Unlock()

	r.publish()
	return nil
}

// SetDefault marks the given id as the default server and clears the flag on
// all others. Returns false when the id is unknown.
func (r *Registry) SetDefault(id string) bool {
	r.mu.Lock()
	if r.indexOf(id) < 0 {
		r.mu.Unlock()
		return false
	}

	next := copySlice(r.servers)
	for i := range next {
		next[i].IsDefault = next[i].ID == id
	}
	if err := r.persist(next); err != nil {
		r.mu.Unlock()
		return false
	}
	r.servers = next
	r.mu.Unlock()

	r.publish()
	return true
}

// Default returns the default-flagged config, falling back to the first
// entry. ok is false when the registry is empty.
func (r *Registry) Default() (cfg model.ServerConfig, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.servers) == 0 {
		return model.ServerConfig{}, false
	}
	for _, s := range r.servers {
		if s.IsDefault {
			return s, true
		}
	}
	return r.servers[0], true
}

// Validate checks that a config names a reachable-looking server: a non-empty
// name and an absolute http(s) URL.
func Validate(cfg model.ServerConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrConfigInvalid)
	}
	return ValidateURL(cfg.URL)
}

// ValidateURL checks that raw is an absolute http(s) URL. The connection
// layer uses this directly since a test-connection probe needs no name.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: url is required", ErrConfigInvalid)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute http or https", ErrConfigInvalid)
	}
	return nil
}

// persist writes the candidate list through to the store. Called with the
// lock held; the in-memory list is only replaced when this succeeds.
func (r *Registry) persist(servers []model.ServerConfig) error {
	raw, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("registry: serialize server list: %w", err)
	}
	r.store.SetString(ServersKey, string(raw))
	return nil
}

func (r *Registry) publish() {
	if r.bus != nil {
		r.bus.Publish()
	}
}

func (r *Registry) indexOf(id string) int {
	for i, s := range r.servers {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func copySlice(in []model.ServerConfig) []model.ServerConfig {
	out := make([]model.ServerConfig, len(in))
	copy(out, in)
	return out
}

// newID builds a collision-resistant id: creation timestamp plus a random
// suffix, so ids stay roughly sortable by age.
func newID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
