package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry maps session ids to stores. Sessions idle for longer than ttl are
// evicted lazily whenever a session is created.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[uuid.UUID]*session
}

// NewRegistry returns a Registry that evicts sessions idle longer than ttl.
// A ttl of zero disables eviction.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[uuid.UUID]*session{},
	}
}

// WithClock replaces the registry clock. Intended for tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Create starts a new session and returns its id and store.
func (r *Registry) Create() (uuid.UUID, *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()

	id := uuid.New()
	st := NewStore()
	r.sessions[id] = &session{store: st, lastSeen: r.now()}
	return id, st
}

// Get returns the store for id and refreshes its idle timer.
// Returns domain.ErrNotFound for unknown or expired sessions.
func (r *Registry) Get(id uuid.UUID) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || r.expired(s) {
		delete(r.sessions, id)
		return nil, fmt.Errorf("state.Registry.Get: session %s: %w", id, domain.ErrNotFound)
	}
	s.lastSeen = r.now()
	return s.store, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *session) bool {
	return r.ttl > 0 && r.now().Sub(s.lastSeen) > r.ttl
}

func (r *Registry) evictLocked() {
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
		}
	}
}
