package auth

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/detect/client/auth/backend"
	"github.com/viant/detect/client/auth/kv"
)

// Option customizes Service
type Option func(s *Service)

// WithPersistence sets the durable store credentials survive restarts in
func WithPersistence(persistence kv.Store) Option {
	return func(s *Service) {
		s.persistence = persistence
	}
}

// WithEndpoints overrides token endpoint paths
func WithEndpoints(endpoints backend.Endpoints) Option {
	return func(s *Service) {
		s.endpoints = endpoints
	}
}

// WithTransport sets the underlying http transport
func WithTransport(transport http.RoundTripper) Option {
	return func(s *Service) {
		s.baseTransport = transport
	}
}

// WithLogoutTimeout bounds the best-effort server side logout call
func WithLogoutTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.logoutTimeout = timeout
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
