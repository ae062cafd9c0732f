package remote

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/registry"
)

// LastUsedKey is the preferences key holding the id of the last connected
// server, re-validated on next startup.
const LastUsedKey = "webdav_last_used"

const (
	// ConnectTimeout bounds the liveness probe of a full connect.
	ConnectTimeout = 10 * time.Second

	// VerifyTimeout bounds the lightweight "test connection" probe.
	VerifyTimeout = 5 * time.Second

	// transferTimeout is the transport-level bound on the session handle. It
	// backstops context deadlines: an abandoned call cannot hold its
	// connection past this.
	transferTimeout = 60 * time.Second
)

// Manager holds at most one active authenticated session process-wide.
// Establishing a new session implicitly discards the previous one. In-flight
// operations built on a discarded session are not cancelled; consumers guard
// their continuations with Active before applying results to shared state.
type Manager struct {
	mu      sync.Mutex
	store   registry.Store
	reg     *registry.Registry
	bus     *event.Bus
	dial    Dialer
	state   model.ConnState
	session *Session

	// gen stamps each connect attempt; a continuation applies its result
	// only while its stamp is still the latest.
	gen uint64
}

// NewManager creates a disconnected manager persisting the last-used id
// through store.
func NewManager(store registry.Store, reg *registry.Registry, bus *event.Bus) *Manager {
	return &Manager{
		store: store,
		reg:   reg,
		bus:   bus,
		dial:  DialWebDAV,
		state: model.StateDisconnected,
	}
}

// SetDialer replaces the client factory. Used by tests.
func (m *Manager) SetDialer(d Dialer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dial = d
}

// State reports the connection state. Never fails; a manager in doubt is
// Disconnected.
func (m *Manager) State() model.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns the active session, or nil.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Active reports whether s is still the live session. Continuations that ran
// against an older session use this to discard their results.
func (m *Manager) Active(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return s != nil && m.session == s
}

// CurrentServer returns the config of the connected server.
func (m *Manager) CurrentServer() (model.ServerConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return model.ServerConfig{}, false
	}
	return m.session.Config, true
}

// ActiveServerID implements registry.SessionHook.
func (m *Manager) ActiveServerID() string {
	cfg, ok := m.CurrentServer()
	if !ok {
		return ""
	}
	return cfg.ID
}

// Reconnect implements registry.SessionHook.
func (m *Manager) Reconnect(cfg model.ServerConfig) error {
	return m.Connect(context.Background(), cfg)
}

// Connect validates cfg, probes the server with a bounded root listing and,
// on success, installs the new session and persists cfg.ID as last used. Any
// previous session is discarded when the attempt starts, and a connect that
// starts later supersedes this one: a superseded attempt discards its handle
// and returns ErrSuperseded without touching the live session or the
// last-used key. On failure the partial client handle is dropped and the
// manager is left Disconnected.
func (m *Manager) Connect(ctx context.Context, cfg model.ServerConfig) error {
	if err := registry.ValidateURL(cfg.URL); err != nil {
		return err
	}

	m.mu.Lock()
	m.session = nil
	m.state = model.StateConnecting
	m.gen++
	attempt := m.gen
	dial := m.dial
	m.mu.Unlock()
	m.publish()

	// The probe handle's transport bound matches the probe deadline; the
	// session handle is dialed separately with the transfer bound.
	probeClient := dial(cfg, ConnectTimeout)

	probeCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := probe(probeCtx, probeClient); err != nil {
		m.mu.Lock()
		latest := attempt == m.gen
		if latest && m.session == nil {
			m.state = model.StateDisconnected
		}
		m.mu.Unlock()
		if latest {
			m.publish()
		}
		log.Printf("remote: connect to %s failed: %v", cfg.URL, err)
		return wrapClass(err, "connect "+cfg.URL)
	}

	client := dial(cfg, transferTimeout)

	m.mu.Lock()
	if attempt != m.gen {
		m.mu.Unlock()
		log.Printf("remote: connect to %s superseded, dropping handle", cfg.URL)
		return ErrSuperseded
	}
	m.session = &Session{Config: cfg, Client: client}
	m.state = model.StateConnected
	m.store.SetString(LastUsedKey, cfg.ID)
	m.mu.Unlock()

	m.publish()
	return nil
}

// Disconnect clears the session and forgets the persisted last-used id.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	hadSession := m.session != nil || m.state != model.StateDisconnected
	m.session = nil
	m.state = model.StateDisconnected
	m.mu.Unlock()

	m.store.SetString(LastUsedKey, "")
	if hadSession {
		m.publish()
	}
}

// Verify probes cfg the same way Connect does but never touches the active
// session. It reports a boolean and never returns an error; used by the
// "test connection" flow.
func (m *Manager) Verify(ctx context.Context, cfg model.ServerConfig) bool {
	if err := registry.ValidateURL(cfg.URL); err != nil {
		return false
	}

	m.mu.Lock()
	dial := m.dial
	m.mu.Unlock()

	client := dial(cfg, VerifyTimeout)
	probeCtx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()
	if err := probe(probeCtx, client); err != nil {
		log.Printf("remote: verify %s failed: %v", cfg.URL, err)
		return false
	}
	return true
}

// Restore is the best-effort startup recovery: try the persisted last-used
// server, then the registry default. Failures are logged, never raised, so
// initialization cannot abort application startup.
func (m *Manager) Restore(ctx context.Context) {
	tried := ""
	if id := m.store.String(LastUsedKey); id != "" {
		cfg, err := m.reg.Get(id)
		if err != nil {
			log.Printf("remote: last-used server %s no longer exists", id)
		} else {
			tried = cfg.ID
			err := m.Connect(ctx, cfg)
			if err == nil || errors.Is(err, ErrSuperseded) {
				return
			}
		}
	}

	cfg, ok := m.reg.Default()
	if !ok || cfg.ID == tried {
		return
	}
	if err := m.Connect(ctx, cfg); err != nil {
		log.Printf("remote: startup connect to %s failed: %v", cfg.Name, err)
	}
}

func (m *Manager) publish() {
	if m.bus != nil {
		m.bus.Publish()
	}
}

// probe issues a root directory listing as a liveness check. The context
// bounds the wait; the handle's transport timeout bounds the transfer
// itself, so a deadline hit does not leak the connection indefinitely.
func probe(ctx context.Context, c Client) error {
	done := make(chan error, 1)
	go func() {
		_, err := c.ReadDir("/")
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}
