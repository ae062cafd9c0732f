package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/model"
)

// mapStore is an in-memory Store, standing in for fyne preferences.
type mapStore map[string]string

func (m mapStore) String(key string) string    { return m[key] }
func (m mapStore) SetString(key, value string) { m[key] = value }

func validConfig(name string) model.ServerConfig {
	return model.ServerConfig{
		Name:     name,
		URL:      "https://dav.example.test/music",
		Username: "alice",
		Password: "secret",
	}
}

func TestAddAssignsUniqueID(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())

	id1, err := reg.Add(validConfig("one"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	id2, err := reg.Add(validConfig("two"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if id1 == "" || id1 == id2 {
		t.Errorf("Expected distinct non-empty ids, got %q and %q", id1, id2)
	}

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(list))
	}
	if list[0].Name != "one" || list[0].ID != id1 {
		t.Errorf("First entry mismatch: %+v", list[0])
	}
	if list[0].URL != "https://dav.example.test/music" || list[0].Username != "alice" {
		t.Errorf("Fields not preserved: %+v", list[0])
	}
}

func TestAddIgnoresCallerID(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())

	cfg := validConfig("one")
	cfg.ID = "caller-chosen"
	id, err := reg.Add(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id == "caller-chosen" {
		t.Error("Add must assign a fresh id")
	}
}

func TestAddValidation(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())

	tests := []struct {
		name string
		cfg  model.ServerConfig
	}{
		{"empty name", model.ServerConfig{URL: "https://a.test"}},
		{"empty url", model.ServerConfig{Name: "x"}},
		{"relative url", model.ServerConfig{Name: "x", URL: "/dav"}},
		{"bad scheme", model.ServerConfig{Name: "x", URL: "ftp://a.test"}},
	}

	for _, tc := range tests {
		if _, err := reg.Add(tc.cfg); !errors.Is(err, ErrConfigInvalid) {
			t.Errorf("%s: expected ErrConfigInvalid, got %v", tc.name, err)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := mapStore{}
	reg := New(store, event.NewBus())

	id, err := reg.Add(validConfig("kept"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A fresh registry over the same store sees the mutation
	reg2 := New(store, event.NewBus())
	got, err := reg2.Get(id)
	if err != nil {
		t.Fatalf("Expected server to survive reload, got %v", err)
	}
	if got.Name != "kept" || got.Password != "secret" {
		t.Errorf("Reloaded entry mismatch: %+v", got)
	}
}

func TestCorruptPersistedListIsDiscarded(t *testing.T) {
	store := mapStore{ServersKey: "{not json["}
	reg := New(store, event.NewBus())
	if len(reg.List()) != 0 {
		t.Error("Corrupt payload should load as empty list")
	}
}

func TestUpdatePartial(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	id, _ := reg.Add(validConfig("old"))

	name := "renamed"
	if err := reg.Update(id, Patch{Name: &name}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, _ := reg.Get(id)
	if got.Name != "renamed" {
		t.Errorf("Expected renamed, got %s", got.Name)
	}
	if got.URL != "https://dav.example.test/music" {
		t.Errorf("Untouched field changed: %s", got.URL)
	}

	badURL := "not a url"
	if err := reg.Update(id, Patch{URL: &badURL}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	name := "x"
	if err := reg.Update("missing", Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	id, _ := reg.Add(validConfig("gone"))

	if err := reg.Delete(id); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, s := range reg.List() {
		if s.ID == id {
			t.Error("Deleted id still present in list")
		}
	}
	if err := reg.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

// recordingHook captures SessionHook calls.
type recordingHook struct {
	activeID     string
	reconnected  []model.ServerConfig
	disconnected int
	done         chan struct{}
}

func (h *recordingHook) ActiveServerID() string { return h.activeID }
func (h *recordingHook) Reconnect(cfg model.ServerConfig) error {
	h.reconnected = append(h.reconnected, cfg)
	if h.done != nil {
		close(h.done)
	}
	return nil
}
func (h *recordingHook) Disconnect() { h.disconnected++ }

func TestDeleteActiveServerTearsDownSession(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	id, _ := reg.Add(validConfig("active"))

	hook := &recordingHook{activeID: id}
	reg.SetSessionHook(hook)

	if err := reg.Delete(id); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if hook.disconnected != 1 {
		t.Errorf("Expected 1 disconnect, got %d", hook.disconnected)
	}
}

func TestUpdateActiveServerTriggersReconnect(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	id, _ := reg.Add(validConfig("active"))

	hook := &recordingHook{activeID: id, done: make(chan struct{})}
	reg.SetSessionHook(hook)

	name := "renamed"
	if err := reg.Update(id, Patch{Name: &name}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	<-hook.done
	if len(hook.reconnected) != 1 || hook.reconnected[0].Name != "renamed" {
		t.Errorf("Expected reconnect with updated config, got %+v", hook.reconnected)
	}
}

func TestSetDefault(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())
	id1, _ := reg.Add(validConfig("a"))
	id2, _ := reg.Add(validConfig("b"))

	if !reg.SetDefault(id2) {
		t.Fatal("SetDefault returned false for known id")
	}
	if reg.SetDefault("missing") {
		t.Error("SetDefault returned true for unknown id")
	}

	def, ok := reg.Default()
	if !ok || def.ID != id2 {
		t.Errorf("Expected default %s, got %+v ok=%v", id2, def, ok)
	}

	// Flag moves, never duplicates
	if !reg.SetDefault(id1) {
		t.Fatal("SetDefault returned false for known id")
	}
	flagged := 0
	for _, s := range reg.List() {
		if s.IsDefault {
			flagged++
		}
	}
	if flagged != 1 {
		t.Errorf("Expected exactly 1 default, got %d", flagged)
	}
}

func TestDefaultFallsBackToFirst(t *testing.T) {
	reg := New(mapStore{}, event.NewBus())

	if _, ok := reg.Default(); ok {
		t.Error("Empty registry should have no default")
	}

	id, _ := reg.Add(validConfig("only"))
	def, ok := reg.Default()
	if !ok || def.ID != id {
		t.Errorf("Expected first entry as default, got %+v", def)
	}
}

func TestMutationsPublish(t *testing.T) {
	bus := event.NewBus()
	reg := New(mapStore{}, bus)

	events := 0
	bus.Subscribe(func() { events++ })

	id, _ := reg.Add(validConfig("a"))
	name := "b"
	reg.Update(id, Patch{Name: &name})
	reg.SetDefault(id)
	reg.Delete(id)

	if events != 4 {
		t.Errorf("Expected 4 bus events, got %d", events)
	}
}

func TestNewIDShape(t *testing.T) {
	id := newID()
	if !strings.Contains(id, "-") {
		t.Errorf("Expected timestamp-suffix shape, got %q", id)
	}
}
