// Package keystore holds per-session API credentials for the three external
// services. Values live in memory for the session and are mirrored
// best-effort to the per-user remote record when a user is bound: a mirror
// failure is logged and permanently dropped, never raised to the caller.
package keystore

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Kind names a credential set.
type Kind string

const (
	KindLLM    Kind = "llm"
	KindSearch Kind = "search"
	KindHotel  Kind = "hotel" // key + secret pair
)

// Slot names match the fields of the remote per-user record.
const (
	slotLLM         = "openai"
	slotSearch      = "serper"
	slotHotelKey    = "hotelbedsKey"
	slotHotelSecret = "hotelbedsSecret"
)

const mirrorTimeout = 10 * time.Second

// Mirror is the remote per-user credential record. Implemented by the
// database package; nil when persistence is not configured.
type Mirror interface {
	SaveKeys(ctx context.Context, userID string, fields map[string]string) error
	LoadKeys(ctx context.Context, userID string) (map[string]string, error)
	DeleteKeys(ctx context.Context, userID string, fields []string) error
}

// Store holds one session's credentials.
type Store struct {
	mu     sync.RWMutex
	local  map[string]string
	userID string
	mirror Mirror
}

func NewStore(mirror Mirror) *Store {
	return &Store{local: make(map[string]string), mirror: mirror}
}

// BindUser sets or clears the mirroring target. Binding does not pull
// remote values; call LoadRemote for that.
func (s *Store) BindUser(userID string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
}

func slotsFor(kind Kind) ([]string, error) {
	switch kind {
	case KindLLM:
		return []string{slotLLM}, nil
	case KindSearch:
		return []string{slotSearch}, nil
	case KindHotel:
		return []string{slotHotelKey, slotHotelSecret}, nil
	default:
		return nil, fmt.Errorf("unknown credential kind %q", kind)
	}
}

// Set persists values locally and mirrors them best-effort. The hotel kind
// takes two values (key, secret); the others take one.
func (s *Store) Set(kind Kind, values ...string) error {
	slots, err := slotsFor(kind)
	if err != nil {
		return err
	}
	if len(values) != len(slots) {
		return fmt.Errorf("credential kind %q expects %d value(s), got %d", kind, len(slots), len(values))
	}

	fields := make(map[string]string, len(slots))
	s.mu.Lock()
	for i, slot := range slots {
		s.local[slot] = values[i]
		fields[slot] = values[i]
	}
	userID, mirror := s.userID, s.mirror
	s.mu.Unlock()

	if mirror != nil && userID != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if err := mirror.SaveKeys(ctx, userID, fields); err != nil {
				log.WithError(err).WithField("kind", kind).Warn("credential mirror save failed")
			}
		}()
	}
	return nil
}

// Get reads the local values only; the remote record is never read
// synchronously. Returns nil when the kind is not fully configured.
func (s *Store) Get(kind Kind) []string {
	slots, err := slotsFor(kind)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]string, 0, len(slots))
	for _, slot := range slots {
		v, ok := s.local[slot]
		if !ok || v == "" {
			return nil
		}
		values = append(values, v)
	}
	return values
}

// Has reports whether every slot of the kind holds a value locally.
func (s *Store) Has(kind Kind) bool { return s.Get(kind) != nil }

// Clear removes the local values and best-effort deletes the remote fields.
func (s *Store) Clear(kind Kind) error {
	slots, err := slotsFor(kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for _, slot := range slots {
		delete(s.local, slot)
	}
	userID, mirror := s.userID, s.mirror
	s.mu.Unlock()

	if mirror != nil && userID != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if err := mirror.DeleteKeys(ctx, userID, slots); err != nil {
				log.WithError(err).WithField("kind", kind).Warn("credential mirror delete failed")
			}
		}()
	}
	return nil
}

// LoadRemote copies remote-stored values into the local store. Called once
// at session start; a missing mirror or unbound user is a no-op.
func (s *Store) LoadRemote(ctx context.Context) error {
	s.mu.RLock()
	userID, mirror := s.userID, s.mirror
	s.mu.RUnlock()
	if mirror == nil || userID == "" {
		return nil
	}

	fields, err := mirror.LoadKeys(ctx, userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for slot, v := range fields {
		if v != "" {
			s.local[slot] = v
		}
	}
	s.mu.Unlock()
	return nil
}

// Convenience accessors for the service clients.

func (s *Store) LLMKey() string {
	if v := s.Get(KindLLM); v != nil {
		return v[0]
	}
	return ""
}

func (s *Store) SearchKey() string {
	if v := s.Get(KindSearch); v != nil {
		return v[0]
	}
	return ""
}

func (s *Store) HotelCredentials() (key, secret string) {
	if v := s.Get(KindHotel); v != nil {
		return v[0], v[1]
	}
	return "", ""
}

// Sessions hands out one Store per caller. Authenticated callers are
// keyed by user id and mirrored; anonymous callers are keyed by an opaque
// per-client session id and never mirrored. The two namespaces are
// disjoint, so no caller can ever reach another caller's credentials.
type Sessions struct {
	mu        sync.Mutex
	mirror    Mirror
	entries   map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	store    *Store
	lastUsed time.Time
}

const (
	sessionIdleTTL = 24 * time.Hour
	sweepInterval  = time.Hour
)

func NewSessions(mirror Mirror) *Sessions {
	return &Sessions{
		mirror:    mirror,
		entries:   make(map[string]*sessionEntry),
		lastSweep: time.Now(),
	}
}

// ForUser returns the store for an authenticated user, mirrored to the
// user's remote credential record.
func (s *Sessions) ForUser(userID string) *Store {
	return s.get("user:"+userID, userID)
}

// ForSession returns the store for an anonymous per-client session id.
// Never mirrored: the credentials live and die with the session.
func (s *Sessions) ForSession(sessionID string) *Store {
	return s.get("anon:"+sessionID, "")
}

func (s *Sessions) get(key, bindUser string) *Store {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	if e, ok := s.entries[key]; ok {
		e.lastUsed = now
		return e.store
	}
	store := NewStore(s.mirror)
	if bindUser != "" {
		store.BindUser(bindUser)
	}
	s.entries[key] = &sessionEntry{store: store, lastUsed: now}
	return store
}

// sweepLocked drops stores idle past the TTL, keeping the session map
// bounded. Authenticated callers repopulate via LoadRemote; anonymous
// sessions simply expire.
func (s *Sessions) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for key, e := range s.entries {
		if now.Sub(e.lastUsed) > sessionIdleTTL {
			delete(s.entries, key)
		}
	}
}
