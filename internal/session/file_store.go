package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/pkg/errors"
)

// FileStore persists the session as a JSON file readable only by the owner
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session file
func (f *FileStore) Load() (*types.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.ErrNoSession
		}
		return nil, errors.Wrap(err, "failed to read session file")
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}
	if session.Token == "" {
		return nil, types.ErrNoSession
	}

	return &session, nil
}

// Save writes the session file, creating its directory if needed
func (f *FileStore) Save(session *types.Session) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	return nil
}

// Clear removes the session file. A missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}
