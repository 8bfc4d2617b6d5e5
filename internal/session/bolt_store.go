package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucket = "session"
	sessionKey    = "current"
)

var errBucketMissing = errors.New("session bucket missing")

// BoltStore persists the session in a bbolt database
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database at path
func OpenBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrap(err, "failed to create session directory")
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bbolt database")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create session bucket")
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (b *BoltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltStore) Load() (*types.Session, error) {
	var session *types.Session
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return errBucketMissing
		}

		value := bucket.Get([]byte(sessionKey))
		if value == nil {
			return types.ErrNoSession
		}

		var s types.Session
		if err := json.Unmarshal(value, &s); err != nil {
			return errors.Wrap(err, "failed to unmarshal session")
		}
		if s.Token == "" {
			return types.ErrNoSession
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (b *BoltStore) Save(session *types.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(sessionKey), data)
	})
}

func (b *BoltStore) Clear() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Delete([]byte(sessionKey))
	})
}
