package keystore

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingMirror struct {
	saved   chan map[string]string
	deleted chan []string
}

func newFailingMirror() *failingMirror {
	return &failingMirror{
		saved:   make(chan map[string]string, 4),
		deleted: make(chan []string, 4),
	}
}

func (m *failingMirror) SaveKeys(_ context.Context, _ string, fields map[string]string) error {
	m.saved <- fields
	return errors.New("remote unavailable")
}

func (m *failingMirror) LoadKeys(_ context.Context, _ string) (map[string]string, error) {
	return nil, errors.New("remote unavailable")
}

func (m *failingMirror) DeleteKeys(_ context.Context, _ string, fields []string) error {
	m.deleted <- fields
	return errors.New("remote unavailable")
}

func TestSetThenClearWithFailingMirror(t *testing.T) {
	mirror := newFailingMirror()
	store := NewStore(mirror)
	store.BindUser("user-1")

	if err := store.Set(KindLLM, "sk-test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !store.Has(KindLLM) {
		t.Fatal("expected llm key to be configured after set")
	}
	if got := store.LLMKey(); got != "sk-test" {
		t.Fatalf("LLMKey() = %q, want %q", got, "sk-test")
	}

	if err := store.Clear(KindLLM); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Has(KindLLM) {
		t.Fatal("expected llm key to be gone after clear, despite mirror failure")
	}
	if store.Get(KindLLM) != nil {
		t.Fatal("expected Get to return nil after clear")
	}

	// Both mirror operations were attempted and their failures swallowed.
	select {
	case <-mirror.saved:
	case <-time.After(time.Second):
		t.Fatal("mirror save was never attempted")
	}
	select {
	case <-mirror.deleted:
	case <-time.After(time.Second):
		t.Fatal("mirror delete was never attempted")
	}
}

func TestHotelKindIsAPair(t *testing.T) {
	store := NewStore(nil)

	if err := store.Set(KindHotel, "key-only"); err == nil {
		t.Fatal("expected an error when setting hotel credentials with one value")
	}
	if err := store.Set(KindHotel, "key", "secret"); err != nil {
		t.Fatalf("set hotel pair: %v", err)
	}
	if !store.Has(KindHotel) {
		t.Fatal("expected hotel credentials to be configured")
	}
	key, secret := store.HotelCredentials()
	if key != "key" || secret != "secret" {
		t.Fatalf("HotelCredentials() = (%q, %q)", key, secret)
	}

	// A half-cleared pair is not configured.
	store.mu.Lock()
	delete(store.local, slotHotelSecret)
	store.mu.Unlock()
	if store.Has(KindHotel) {
		t.Fatal("hotel kind must require both key and secret")
	}
}

func TestUnboundStoreNeverMirrors(t *testing.T) {
	mirror := newFailingMirror()
	store := NewStore(mirror)

	if err := store.Set(KindSearch, "serper-key"); err != nil {
		t.Fatalf("set: %v", err)
	}
	select {
	case <-mirror.saved:
		t.Fatal("mirror must not be called without a bound user")
	case <-time.After(50 * time.Millisecond):
	}
	if !store.Has(KindSearch) {
		t.Fatal("local value should be set regardless of mirroring")
	}
}

type recordingMirror struct {
	fields map[string]string
}

func (m *recordingMirror) SaveKeys(_ context.Context, _ string, fields map[string]string) error {
	return nil
}

func (m *recordingMirror) LoadKeys(_ context.Context, _ string) (map[string]string, error) {
	return m.fields, nil
}

func (m *recordingMirror) DeleteKeys(_ context.Context, _ string, _ []string) error {
	return nil
}

func TestLoadRemoteCopiesIntoLocal(t *testing.T) {
	mirror := &recordingMirror{fields: map[string]string{
		slotLLM:         "sk-remote",
		slotHotelKey:    "hb-key",
		slotHotelSecret: "hb-secret",
	}}
	store := NewStore(mirror)
	store.BindUser("user-2")

	if err := store.LoadRemote(context.Background()); err != nil {
		t.Fatalf("load remote: %v", err)
	}
	if got := store.LLMKey(); got != "sk-remote" {
		t.Fatalf("LLMKey() = %q, want sk-remote", got)
	}
	if !store.Has(KindHotel) {
		t.Fatal("expected hotel pair after remote load")
	}
	if store.Has(KindSearch) {
		t.Fatal("search key was never stored remotely")
	}
}

func TestSessionsKeyedByCaller(t *testing.T) {
	sessions := NewSessions(nil)

	if sessions.ForUser("u1") != sessions.ForUser("u1") {
		t.Fatal("expected the same store for the same user")
	}
	if sessions.ForUser("u1") == sessions.ForUser("u2") {
		t.Fatal("expected distinct stores for distinct users")
	}
	if sessions.ForSession("s1") != sessions.ForSession("s1") {
		t.Fatal("expected the same store for the same session id")
	}
	if sessions.ForSession("s1") == sessions.ForSession("s2") {
		t.Fatal("expected distinct stores for distinct session ids")
	}
	// The user and session namespaces never collide, even on equal text.
	if sessions.ForUser("x") == sessions.ForSession("x") {
		t.Fatal("user and session stores must be disjoint")
	}
}

func TestSessionCredentialsAreIsolated(t *testing.T) {
	sessions := NewSessions(nil)

	if err := sessions.ForSession("alice").Set(KindLLM, "sk-alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if sessions.ForSession("bob").Has(KindLLM) {
		t.Fatal("one session's credentials leaked into another")
	}
	if sessions.ForUser("alice").Has(KindLLM) {
		t.Fatal("an anonymous session's credentials leaked into a user store")
	}
	if got := sessions.ForSession("alice").LLMKey(); got != "sk-alice" {
		t.Fatalf("LLMKey() = %q, want sk-alice", got)
	}
}

func TestSessionsEvictIdleStores(t *testing.T) {
	sessions := NewSessions(nil)
	if err := sessions.ForSession("stale").Set(KindLLM, "sk-stale"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Age the entry past the TTL and let the next access sweep it.
	sessions.mu.Lock()
	sessions.entries["anon:stale"].lastUsed = time.Now().Add(-2 * sessionIdleTTL)
	sessions.lastSweep = time.Now().Add(-2 * sweepInterval)
	sessions.mu.Unlock()

	sessions.ForUser("someone-else")

	if sessions.ForSession("stale").Has(KindLLM) {
		t.Fatal("idle session store must be evicted, not handed back")
	}
}
