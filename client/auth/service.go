package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/detect/client/auth/backend"
	"github.com/viant/detect/client/auth/kv"
	"github.com/viant/detect/client/auth/refresh"
	"github.com/viant/detect/client/auth/session"
	"github.com/viant/detect/client/auth/store"
	"github.com/viant/detect/client/auth/transport"
	"github.com/viant/detect/schema"
	"golang.org/x/oauth2"
)

// Service represents client session
type Service struct {
	persistence   kv.Store
	endpoints     backend.Endpoints
	baseTransport http.RoundTripper
	logoutTimeout time.Duration
	logger        zerolog.Logger

	store       *store.Store
	machine     *session.Machine
	backend     *backend.Service
	coordinator *refresh.Coordinator
	transport   *transport.RoundTripper
}

// Login exchanges username and password for credentials. On failure the
// session is left untouched and the error keeps the server's reason.
func (s *Service) Login(ctx context.Context, username, password string) (store.Credentials, error) {
	pair, err := s.backend.Issue(ctx, username, password)
	if err != nil {
		s.logger.Debug().Str("subject", username).Err(err).Msg("login failed")
		return store.Credentials{}, err
	}
	var credentials store.Credentials
	s.machine.Login(func() {
		credentials = s.store.Set(ctx, store.Credentials{
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
			Subject:      username,
		})
	})
	s.logger.Info().Str("subject", username).Msg("logged in")
	return credentials, nil
}

// Logout ends the session. The backend is asked to revoke the refresh token
// first, but that call's failure never prevents the local logout. Logging
// out an anonymous session is a no-op.
func (s *Service) Logout(ctx context.Context) {
	credentials := s.store.Get()
	if credentials.CanRefresh() {
		callCtx, cancel := context.WithTimeout(ctx, s.logoutTimeout)
		if err := s.backend.Invalidate(callCtx, credentials.RefreshToken); err != nil {
			s.logger.Warn().Err(err).Str("subject", credentials.Subject).Msg("server side logout failed")
		}
		cancel()
	}
	if s.machine.Logout(func() { s.store.Clear(ctx) }) {
		s.logger.Info().Str("subject", credentials.Subject).Msg("logged out")
	}
}

// State returns current session state
func (s *Service) State() session.State {
	return s.machine.State()
}

// Subscribe observes session state changes, see session.Machine.Subscribe
func (s *Service) Subscribe() (<-chan session.State, func()) {
	return s.machine.Subscribe()
}

// Credentials returns a copy of the current credentials
func (s *Service) Credentials() store.Credentials {
	return s.store.Get()
}

// Subject returns display identity of the logged-in user
func (s *Service) Subject() string {
	return s.store.Get().Subject
}

// Token returns the current access token, so the session can serve as an oauth2.TokenSource.
func (s *Service) Token() (*oauth2.Token, error) {
	credentials := s.store.Get()
	if !credentials.HasAccess() {
		return nil, schema.ErrAuthorizationDenied
	}
	return credentials.Token(), nil
}

// Transport returns the authenticating round tripper
func (s *Service) Transport() http.RoundTripper {
	return s.transport
}

// HTTPClient returns a client whose requests go through the authenticated pipeline
func (s *Service) HTTPClient() *http.Client {
	return &http.Client{Transport: s.transport}
}

// New creates a session against backend baseURL, restoring persisted
// credentials. A restored pair starts the session Authenticated without
// contacting the backend; its validity is discovered by the first request.
func New(ctx context.Context, baseURL string, options ...Option) *Service {
	ret := &Service{
		endpoints:     backend.DefaultEndpoints(),
		baseTransport: http.DefaultTransport,
		logoutTimeout: 5 * time.Second,
		logger:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.store = store.New(ctx, ret.persistence, store.WithLogger(ret.logger))
	initial := session.Anonymous
	if restored := ret.store.Get(); restored.HasAccess() && restored.CanRefresh() {
		initial = session.Authenticated
	}
	ret.machine = session.New(initial, session.WithLogger(ret.logger))
	ret.backend = backend.New(baseURL,
		backend.WithEndpoints(ret.endpoints),
		backend.WithHTTPClient(&http.Client{Transport: ret.baseTransport}))
	ret.coordinator = refresh.New(ret.store, ret.machine, ret.backend, refresh.WithLogger(ret.logger))
	ret.transport = transport.New(ret.store, ret.coordinator,
		transport.WithTransport(ret.baseTransport),
		transport.WithLogger(ret.logger))
	return ret
}

var _ oauth2.TokenSource = (*Service)(nil)
