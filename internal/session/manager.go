package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoEditableOrder = errors.New("no order is open for editing")
)

// Store persists session snapshots outside the process.
type Store interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, id string, snap Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager owns the live sessions of this process. With a Store configured,
// sessions survive restarts and are reloaded on first use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store
	ttl      time.Duration
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewManager creates a manager. store may be nil for memory-only sessions.
func NewManager(store Store, ttl time.Duration, recorder *metrics.Recorder) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		ttl:      ttl,
		recorder: recorder,
		now:      time.Now,
	}
}

// Create starts a new, empty session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.recorder.SetSessions(n)
	return s
}

// Get returns the session for id, loading it from the store when it is not
// live in this process.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		if s.idleSince(m.now()) > m.ttl {
			m.drop(id)
			return nil, ErrSessionNotFound
		}
		s.touch(m.now())
		return s, nil
	}

	if m.store == nil {
		return nil, ErrSessionNotFound
	}
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := fromSnapshot(id, *snap, m.now())

	m.mu.Lock()
	// another request may have loaded it meanwhile
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[id] = loaded
	n := len(m.sessions)
	m.mu.Unlock()
	m.recorder.SetSessions(n)
	return loaded, nil
}

// GetOrCreate resolves id or starts a fresh session. created reports
// whether a new cookie must be issued.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (s *Session, created bool) {
	if id != "" {
		existing, err := m.Get(ctx, id)
		if err == nil {
			return existing, false
		}
		if !errors.Is(err, ErrSessionNotFound) {
			utils.LogWarn(err, "Failed to load session, starting a new one", map[string]interface{}{"session_id": id})
		}
	}
	return m.Create(), true
}

// Persist writes the session to the store and refreshes its TTL.
func (m *Manager) Persist(ctx context.Context, s *Session) error {
	if m.store == nil || s == nil {
		return nil
	}
	if err := m.store.Save(ctx, s.ID, s.Snapshot(), m.ttl); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Destroy tears a session down everywhere.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	m.drop(id)
	if m.store == nil {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Sweep evicts sessions idle for longer than the TTL from memory. Persisted
// copies expire in the store on their own.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			evicted++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	m.recorder.SetSessions(n)
	return evicted
}

// RunJanitor sweeps every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				utils.LogDebug("Evicted idle sessions", map[string]interface{}{"count": n})
			}
		}
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	m.recorder.SetSessions(n)
}
