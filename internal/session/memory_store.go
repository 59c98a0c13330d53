// internal/session/memory_store.go
package session

import (
	"context"
	"sync"
	"time"

	"customer-portal/internal/util"
)

// MemoryStore keeps sessions in process memory. Entries older than maxAge
// are swept whenever a session is saved.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	maxAge   time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. A nil now uses time.Now.
func NewMemoryStore(maxAge time.Duration, now func() time.Time) *MemoryStore {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		maxAge:   maxAge,
		now:      now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.maxAge)
	for id, stored := range m.sessions {
		if stored.LoginTime.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return util.ErrNotFound
	}
	s.LastActivity = at
	m.sessions[id] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
