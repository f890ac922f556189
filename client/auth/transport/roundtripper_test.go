package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/detect/client/auth/refresh"
	"github.com/viant/detect/client/auth/session"
	"github.com/viant/detect/client/auth/store"
	"github.com/viant/detect/schema"
)

type refreshFunc func(ctx context.Context, refreshToken string) (*schema.TokenPair, error)

func (f refreshFunc) Refresh(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
	return f(ctx, refreshToken)
}

type fixture struct {
	store        *store.Store
	machine      *session.Machine
	client       *http.Client
	refreshCalls atomic.Int32
	refreshSeen  atomic.Value
}

func newFixture(t *testing.T, credentials store.Credentials, refresher refreshFunc) *fixture {
	t.Helper()
	ctx := context.Background()
	ret := &fixture{store: store.New(ctx, nil)}
	initial := session.Anonymous
	if credentials.HasAccess() {
		ret.store.Set(ctx, credentials)
		initial = session.Authenticated
	}
	ret.machine = session.New(initial)
	counting := refreshFunc(func(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
		ret.refreshCalls.Add(1)
		ret.refreshSeen.Store(refreshToken)
		return refresher(ctx, refreshToken)
	})
	coordinator := refresh.New(ret.store, ret.machine, counting)
	ret.client = &http.Client{Transport: New(ret.store, coordinator)}
	return ret
}

func issue(access string) refreshFunc {
	return func(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
		return &schema.TokenPair{Access: access}, nil
	}
}

// acceptOnly serves 200 for the given bearer token and 401 otherwise
func acceptOnly(token string, hits *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}
}

func TestRoundTripper_AttachesToken(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("A1", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, hits.Load())
	assert.EqualValues(t, 0, f.refreshCalls.Load())
}

func TestRoundTripper_RefreshAndRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("A2", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"success"}`, string(body))
	assert.EqualValues(t, 2, hits.Load())
	assert.EqualValues(t, 1, f.refreshCalls.Load())
	assert.Equal(t, "R1", f.refreshSeen.Load())
	assert.Equal(t, "A2", f.store.Get().AccessToken)
	assert.Equal(t, "R1", f.store.Get().RefreshToken)
	assert.Equal(t, session.Authenticated, f.machine.State())
}

func TestRoundTripper_ConcurrentUnauthorizedShareRefresh(t *testing.T) {
	const callers = 2
	var arrived sync.WaitGroup
	arrived.Add(callers)
	var retried atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer A1":
			// hold the 401s until both calls observed the stale token
			arrived.Done()
			arrived.Wait()
			w.WriteHeader(http.StatusUnauthorized)
		case "Bearer A2":
			retried.Add(1)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	var wg sync.WaitGroup
	statuses := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.client.Get(server.URL)
			if !assert.NoError(t, err) {
				return
			}
			statuses[i] = resp.StatusCode
			_ = resp.Body.Close()
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 1, f.refreshCalls.Load())
	assert.EqualValues(t, callers, retried.Load())
	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
}

func TestRoundTripper_RefreshRejected(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("never", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, func(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
		return nil, &schema.APIError{Status: http.StatusUnauthorized, Detail: "Token is invalid or expired"}
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.client.Get(server.URL)
			if resp != nil {
				_ = resp.Body.Close()
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.ErrorIs(t, err, schema.ErrSessionExpired)
	}
	assert.True(t, f.store.Get().IsZero())
	assert.Equal(t, session.Anonymous, f.machine.State())
	assert.EqualValues(t, 1, f.refreshCalls.Load())
}

func TestRoundTripper_AtMostOneRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("never", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 2, hits.Load())
	assert.EqualValues(t, 1, f.refreshCalls.Load())
}

func TestRoundTripper_UnauthorizedWithoutRefreshToken(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("A1", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{}, issue("A2"))

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 1, hits.Load())
	assert.EqualValues(t, 0, f.refreshCalls.Load())
}

func TestRoundTripper_WithoutAuth(t *testing.T) {
	var authorization atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	req, err := http.NewRequestWithContext(WithoutAuth(context.Background()), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "", authorization.Load())
	assert.EqualValues(t, 0, f.refreshCalls.Load())
}

func TestRoundTripper_OtherFailuresNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.EqualValues(t, 1, hits.Load())
	assert.EqualValues(t, 0, f.refreshCalls.Load())
}

func TestRoundTripper_ReplaysBodyAndRequestID(t *testing.T) {
	var bodies []string
	var requestIDs []string
	var mux sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mux.Lock()
		bodies = append(bodies, string(data))
		requestIDs = append(requestIDs, r.Header.Get(RequestIDHeader))
		mux.Unlock()
		if r.Header.Get("Authorization") != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	// a body without GetBody must still be replayed
	req, err := http.NewRequest(http.MethodPost, server.URL, io.NopCloser(strings.NewReader(`{"file_id":"x.png"}`)))
	require.NoError(t, err)
	req = req.WithContext(WithRequestID(req.Context(), "req-1"))
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{`{"file_id":"x.png"}`, `{"file_id":"x.png"}`}, bodies)
	assert.Equal(t, []string{"req-1", "req-1"}, requestIDs)
}

func TestRoundTripper_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	URL := server.URL
	server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	_, err := f.client.Get(URL)
	require.Error(t, err)
	assert.True(t, schema.IsNetwork(err))
	assert.EqualValues(t, 0, f.refreshCalls.Load())
}

type trackingBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackingBody) Close() error {
	b.closed.Store(true)
	return nil
}

func TestRoundTripper_ClosesOriginalBody(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(acceptOnly("A2", &hits))
	defer server.Close()
	f := newFixture(t, store.Credentials{AccessToken: "A1", RefreshToken: "R1"}, issue("A2"))

	var useCases = []struct {
		description string
		withGetBody bool
	}{
		{description: "replayable body", withGetBody: true},
		{description: "buffered body", withGetBody: false},
	}
	for _, useCase := range useCases {
		body := &trackingBody{Reader: strings.NewReader(`{"file_id":"f1"}`)}
		req, err := http.NewRequest(http.MethodPost, server.URL, body)
		require.NoError(t, err, useCase.description)
		if useCase.withGetBody {
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(`{"file_id":"f1"}`)), nil
			}
		}
		resp, err := f.client.Transport.RoundTrip(req)
		require.NoError(t, err, useCase.description)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, useCase.description)
		assert.True(t, body.closed.Load(), useCase.description)
	}
}
