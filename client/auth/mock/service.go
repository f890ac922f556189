package mock

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/detect/internal/collection"
	"github.com/viant/detect/schema"
)

// Backend represents a fake detection backend
type Backend struct {
	// Users maps username to password
	Users map[string]string
	// Key signs access tokens
	Key []byte
	// AccessTTL is access token lifetime
	AccessTTL time.Duration
	// RotateRefresh issues a new refresh token on every refresh
	RotateRefresh bool
	// RefreshDelay holds each refresh call, widening race windows in tests
	RefreshDelay time.Duration

	rejectRefresh    atomic.Bool
	alwaysDeny       atomic.Bool
	failLogout       atomic.Bool
	refreshCalls     atomic.Int32
	logoutCalls      atomic.Int32
	unauthorized     atomic.Int32
	accessTokens     *collection.SyncMap[string, bool]
	refreshTokens    *collection.SyncMap[string, string]
	lastRefreshToken atomic.Value

	mux        sync.Mutex
	uploads    map[string]*schema.Upload
	detections []*schema.Detection
}

// RejectRefresh makes the refresh endpoint report every token as expired
func (b *Backend) RejectRefresh(reject bool) {
	b.rejectRefresh.Store(reject)
}

// DenyAll makes every protected endpoint respond 401 regardless of token
func (b *Backend) DenyAll(deny bool) {
	b.alwaysDeny.Store(deny)
}

// FailLogout makes the logout endpoint respond with 500
func (b *Backend) FailLogout(fail bool) {
	b.failLogout.Store(fail)
}

// RevokeAccessTokens invalidates all access tokens issued so far
func (b *Backend) RevokeAccessTokens() {
	b.accessTokens.Range(func(key string, _ bool) bool {
		b.accessTokens.Put(key, false)
		return true
	})
}

// RefreshCalls returns number of refresh endpoint calls
func (b *Backend) RefreshCalls() int {
	return int(b.refreshCalls.Load())
}

// LogoutCalls returns number of logout endpoint calls
func (b *Backend) LogoutCalls() int {
	return int(b.logoutCalls.Load())
}

// Unauthorized returns number of 401 responses from protected endpoints
func (b *Backend) Unauthorized() int {
	return int(b.unauthorized.Load())
}

// LastRefreshToken returns the refresh token presented to the last refresh call
func (b *Backend) LastRefreshToken() string {
	v, _ := b.lastRefreshToken.Load().(string)
	return v
}

// IsRefreshTokenActive returns true when token was issued and not revoked
func (b *Backend) IsRefreshTokenActive(token string) bool {
	_, ok := b.refreshTokens.Get(token)
	return ok
}

// New creates a fake backend with a single user alice/pw
func New() *Backend {
	return &Backend{
		Users:         map[string]string{"alice": "pw"},
		Key:           []byte("detect-mock-signing-key"),
		AccessTTL:     5 * time.Minute,
		accessTokens:  collection.NewSyncMap[string, bool](),
		refreshTokens: collection.NewSyncMap[string, string](),
		uploads:       map[string]*schema.Upload{},
	}
}

// HTTPTestBackend represents Backend served by httptest
type HTTPTestBackend struct {
	*Backend
	Server *httptest.Server
	URL    string
}

func (s *HTTPTestBackend) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}

// NewHTTPTestBackend starts backend on a local listener; customize may adjust Backend before serving.
func NewHTTPTestBackend(customize ...func(b *Backend)) *HTTPTestBackend {
	backend := New()
	for _, fn := range customize {
		fn(backend)
	}
	server := httptest.NewServer(backend.Handler())
	return &HTTPTestBackend{Backend: backend, Server: server, URL: server.URL}
}
