package refresh

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/viant/detect/client/auth/session"
	"github.com/viant/detect/client/auth/store"
	"github.com/viant/detect/schema"
	"golang.org/x/sync/singleflight"
)

const flightKey = "refresh"

// errEndedDuringRefresh reports a logout that raced with a refresh
var errEndedDuringRefresh = errors.New("session ended while refresh was in flight")

// Refresher exchanges a refresh token for new credentials
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*schema.TokenPair, error)
}

// Coordinator represents single-flight refresh coordinator
type Coordinator struct {
	store     *store.Store
	machine   *session.Machine
	refresher Refresher
	group     singleflight.Group
	logger    zerolog.Logger
}

// Option customizes Coordinator
type Option func(c *Coordinator)

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// EnsureFresh returns credentials whose access token differs from
// staleAccessToken, the token a caller just saw rejected.
//
// When a concurrent caller already replaced that token, the current
// credentials are returned without contacting the backend. Otherwise the
// caller joins the outstanding refresh, or starts one if none is running.
// Any refresh failure clears the session and is reported as
// schema.ErrSessionExpired to every waiter.
func (c *Coordinator) EnsureFresh(ctx context.Context, staleAccessToken string) (store.Credentials, error) {
	if current, ok := c.refreshedSince(staleAccessToken); ok {
		return current, nil
	}
	// the shared call must not die with whichever caller happened to start it
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		return c.refresh(flightCtx, staleAccessToken)
	})
	select {
	case result := <-ch:
		if result.Err != nil {
			return store.Credentials{}, result.Err
		}
		return result.Val.(store.Credentials), nil
	case <-ctx.Done():
		return store.Credentials{}, ctx.Err()
	}
}

// refreshedSince returns current credentials when they already replaced stale
func (c *Coordinator) refreshedSince(staleAccessToken string) (store.Credentials, bool) {
	if c.machine.State() != session.Authenticated {
		return store.Credentials{}, false
	}
	current := c.store.Get()
	if !current.HasAccess() || current.AccessToken == staleAccessToken {
		return store.Credentials{}, false
	}
	return current, true
}

func (c *Coordinator) refresh(ctx context.Context, staleAccessToken string) (store.Credentials, error) {
	// a previous flight may have completed between the caller's check and this one
	if current, ok := c.refreshedSince(staleAccessToken); ok {
		return current, nil
	}
	current := c.store.Get()
	if !current.CanRefresh() {
		return store.Credentials{}, schema.NewSessionExpired(schema.ErrAuthorizationDenied)
	}
	if !c.machine.BeginRefresh() {
		return store.Credentials{}, errors.New("credential refresh already owned by another coordinator")
	}
	c.logger.Debug().Str("subject", current.Subject).Msg("refreshing credentials")

	pair, err := c.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil {
		c.machine.EndRefresh(false, func() {
			c.store.Clear(ctx)
		})
		c.logger.Warn().Err(err).Str("subject", current.Subject).Msg("credential refresh failed, session cleared")
		return store.Credentials{}, schema.NewSessionExpired(err)
	}

	var updated store.Credentials
	committed := c.machine.EndRefresh(true, func() {
		updated = c.store.Set(ctx, store.Credentials{
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
		})
	})
	if !committed {
		// a login in the meantime leaves a usable session the waiters can retry with
		if current, ok := c.refreshedSince(staleAccessToken); ok {
			c.logger.Debug().Str("subject", current.Subject).Msg("refresh superseded by login")
			return current, nil
		}
		return store.Credentials{}, schema.NewSessionExpired(errEndedDuringRefresh)
	}
	c.logger.Info().Str("subject", updated.Subject).Bool("rotated", pair.Refresh != "").Msg("credentials refreshed")
	return updated, nil
}

// New creates a coordinator
func New(credentials *store.Store, machine *session.Machine, refresher Refresher, options ...Option) *Coordinator {
	ret := &Coordinator{
		store:     credentials,
		machine:   machine,
		refresher: refresher,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
