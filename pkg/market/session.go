package market

import (
	"github.com/eshaffer321/secondhand-go/internal/session"
	internalTypes "github.com/eshaffer321/secondhand-go/internal/types"
)

// Session is the persisted authentication state
type Session = internalTypes.Session

// SessionStore persists the session across process restarts
type SessionStore = session.Store

// SessionManager holds the single active bearer token. Pass one to several
// clients through ClientOptions.Session to share a login between them.
type SessionManager = session.Manager

// NewSessionManager creates a session manager over store, restoring any
// persisted session. A nil store keeps the session in memory.
func NewSessionManager(store SessionStore) (*SessionManager, error) {
	return session.NewManager(store)
}

// NewMemorySessionStore creates a store that lives as long as the process
func NewMemorySessionStore() SessionStore {
	return session.NewMemoryStore()
}

// NewFileSessionStore creates a store backed by a JSON file
func NewFileSessionStore(path string) SessionStore {
	return session.NewFileStore(path)
}

// BoltSessionStore is a session store backed by a bbolt database
type BoltSessionStore = session.BoltStore

// OpenBoltSessionStore opens a bbolt-backed store. Callers must Close it.
func OpenBoltSessionStore(path string) (*BoltSessionStore, error) {
	return session.OpenBoltStore(path)
}
