package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/detect/client/auth/kv"
)

// DefaultKey is the kv key used to persist credentials
const DefaultKey = "credentials"

// Store owns the current credentials.
type Store struct {
	mu      sync.RWMutex
	current Credentials
	kv      kv.Store
	key     string
	logger  zerolog.Logger
}

// Get returns a copy of the current credentials.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current credentials. An access token without a refresh
// token keeps the refresh token already held, which is how a refresh without
// rotation is recorded; an absent subject likewise keeps the current one.
func (s *Store) Set(ctx context.Context, credentials Credentials) Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if credentials.HasAccess() && !credentials.CanRefresh() {
		credentials.RefreshToken = s.current.RefreshToken
	}
	if credentials.Subject == "" {
		credentials.Subject = s.current.Subject
	}
	if credentials.Expiry.IsZero() {
		credentials.Expiry = expiryOf(credentials.AccessToken)
	}
	s.current = credentials
	s.persist(ctx)
	return credentials
}

// Clear removes the credentials from memory and durable storage.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Credentials{}
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to delete persisted credentials")
	}
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.current)
	if err == nil {
		err = s.kv.Set(ctx, s.key, data)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to persist credentials")
	}
}

func (s *Store) load(ctx context.Context) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to load persisted credentials")
		return
	}
	if !ok {
		return
	}
	var restored Credentials
	if err = json.Unmarshal(data, &restored); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable persisted credentials")
		return
	}
	// a half pair cannot authenticate anything
	if restored.HasAccess() && !restored.CanRefresh() {
		return
	}
	s.current = restored
}

// New creates a store over persistence and restores any persisted credentials.
func New(ctx context.Context, persistence kv.Store, options ...Option) *Store {
	ret := &Store{
		kv:     persistence,
		key:    DefaultKey,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.kv == nil {
		ret.kv = kv.NewMemoryStore()
	}
	ret.load(ctx)
	return ret
}
