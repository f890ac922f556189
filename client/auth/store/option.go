package store

import "github.com/rs/zerolog"

// Option customizes Store
type Option func(s *Store)

// WithKey sets the kv key the credentials are persisted under
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}
