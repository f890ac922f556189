package kv

import "context"

// Store is a pluggable persistence layer for client-side session state.
type Store interface {
	// Get returns the value stored under key; ok is false when key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
