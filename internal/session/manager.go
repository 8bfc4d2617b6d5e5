package session

import (
	"errors"
	"sync"
	"time"

	"github.com/eshaffer321/secondhand-go/internal/types"
)

// Manager is the explicit authentication context shared by a client. It holds at
// most one token and writes every change through to its Store.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current *types.Session
}

// NewManager creates a manager and restores any session persisted in store.
// A nil store keeps the session in memory.
func NewManager(store Store) (*Manager, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	m := &Manager{store: store}

	s, err := store.Load()
	switch {
	case err == nil:
		m.current = s
	case errors.Is(err, types.ErrNoSession):
	default:
		return m, err
	}

	return m, nil
}

// Token returns the active bearer token, or "" when logged out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Username returns the user the active token belongs to
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return ""
	}
	return m.current.Username
}

// Current returns a copy of the active session
func (m *Manager) Current() (*types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, types.ErrNoSession
	}
	s := *m.current
	return &s, nil
}

// SetToken replaces the active session and persists it. An empty token clears it.
func (m *Manager) SetToken(token, username string) error {
	if token == "" {
		return m.ClearToken()
	}

	s := &types.Session{
		Token:     token,
		Username:  username,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(s); err != nil {
		return err
	}
	m.current = s
	return nil
}

// ClearToken removes the active session from memory and from the store
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	return m.store.Clear()
}
