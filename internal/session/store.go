package session

import (
	"sync"

	"github.com/eshaffer321/secondhand-go/internal/types"
)

// Store persists the single active session across process restarts
type Store interface {
	// Load returns the persisted session or types.ErrNoSession
	Load() (*types.Session, error)

	// Save replaces the persisted session
	Save(session *types.Session) error

	// Clear removes the persisted session
	Clear() error
}

// MemoryStore keeps the session in process memory only
type MemoryStore struct {
	mu      sync.Mutex
	session *types.Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, types.ErrNoSession
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryStore) Save(session *types.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	return nil
}
