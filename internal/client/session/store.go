package session

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"dropwatch/internal/common"
)

// Storage keys, fixed by the persisted-state contract: the raw bearer token
// and the JSON-serialized identity.
const (
	keyToken = "token"
	keyUser  = "user"
)

var bucketSession = []byte("session")

// Store persists the current session in a local bolt file. Both keys are
// written and removed in single transactions so a crash cannot leave a
// partial session behind.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if needed) the session database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save writes the token and identity atomically.
func (s *Store) Save(token string, user []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyUser), user)
	})
}

// LoadToken returns the persisted token, or common.ErrNotFound.
func (s *Store) LoadToken() (string, error) {
	v, err := s.get(keyToken)
	return string(v), err
}

// LoadUser returns the persisted identity JSON, or common.ErrNotFound.
func (s *Store) LoadUser() ([]byte, error) {
	return s.get(keyUser)
}

func (s *Store) get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSession).Get([]byte(key))
		if v == nil {
			return common.ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Clear removes both keys atomically. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUser))
	})
}
