// Package transport implements the authenticated request pipeline as an
// http.RoundTripper.
//
// Each request carries the current access token as a bearer credential. When
// the backend answers 401 Unauthorized and a refresh token is held, the
// RoundTripper obtains fresh credentials through the refresh coordinator and
// replays the request exactly once; the replay's response is final.
package transport
