package kv

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// DefaultBucket holds session keys unless WithBucket says otherwise.
const DefaultBucket = "session"

// BoltStore persists keys in a single bbolt bucket.
type BoltStore struct {
	db     *bbolt.DB
	bucket []byte
}

// BoltOption customizes BoltStore
type BoltOption func(s *BoltStore)

// WithBucket sets bucket name
func WithBucket(name string) BoltOption {
	return func(s *BoltStore) {
		s.bucket = []byte(name)
	}
}

func (s *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

func (s *BoltStore) Set(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// NewBoltStore returns a Store backed by the given bbolt database.
func NewBoltStore(db *bbolt.DB, options ...BoltOption) *BoltStore {
	ret := &BoltStore{db: db, bucket: []byte(DefaultBucket)}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// OpenBoltStore opens a bbolt database at path and returns a Store over it.
func OpenBoltStore(path string, options ...BoltOption) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBoltStore(db, options...), nil
}
