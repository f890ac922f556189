package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/detect/client/auth/store"
	"github.com/viant/detect/schema"
)

// RequestIDHeader correlates the initial attempt with its retry
const RequestIDHeader = "X-Request-ID"

// Refresher supplies credentials newer than a rejected access token
type Refresher interface {
	EnsureFresh(ctx context.Context, staleAccessToken string) (store.Credentials, error)
}

type RoundTripper struct {
	store     *store.Store
	refresher Refresher
	transport http.RoundTripper
	logger    zerolog.Logger
}

// RoundTrip runs at most two attempts: the initial one and, after a 401
// answered with fresh credentials, a single replay whose outcome is final.
func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := getRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if !requiresAuth(ctx) {
		return r.send(req, nil, "", requestID)
	}
	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	// 1) initial attempt with whatever credentials are held
	credentials := r.store.Get()
	resp, err := r.send(req, getBody, credentials.AccessToken, requestID)
	if err != nil {
		return nil, err
	}

	// 2) anything but 401 is final; so is 401 for a request sent without a refresh token
	if resp.StatusCode != http.StatusUnauthorized || !credentials.CanRefresh() {
		return resp, nil
	}
	discard(resp)

	// 3) join or start the refresh
	fresh, err := r.refresher.EnsureFresh(ctx, credentials.AccessToken)
	if err != nil {
		r.logger.Debug().Str("requestID", requestID).Str("url", req.URL.String()).Err(err).Msg("request abandoned, no fresh credentials")
		return nil, err
	}

	// 4) replay once; the outcome is returned as is
	r.logger.Debug().Str("requestID", requestID).Str("url", req.URL.String()).Msg("replaying request with refreshed credentials")
	return r.send(req, getBody, fresh.AccessToken, requestID)
}

func (r *RoundTripper) send(req *http.Request, getBody func() (io.ReadCloser, error), accessToken, requestID string) (*http.Response, error) {
	var attempt *http.Request
	var err error
	if getBody == nil {
		attempt = req.Clone(req.Context())
	} else if attempt, err = clone(req, getBody); err != nil {
		return nil, err
	}
	if accessToken != "" {
		attempt.Header.Set("Authorization", "Bearer "+accessToken)
	}
	attempt.Header.Set(RequestIDHeader, requestID)
	resp, err := r.transport.RoundTrip(attempt)
	if err != nil {
		return nil, &schema.NetworkError{Op: req.Method, URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// New creates an authenticating round tripper
func New(credentials *store.Store, refresher Refresher, options ...Option) *RoundTripper {
	ret := &RoundTripper{
		store:     credentials,
		refresher: refresher,
		transport: http.DefaultTransport,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
