// Package mock provides an in-process fake of the detection backend that
// facilitates testing of the client-side session pipeline.
//
// The fake issues signed JWT access tokens and opaque refresh tokens, counts
// refresh calls, and lets tests revoke access tokens or reject refreshes to
// drive the expiry paths without a real server.
package mock
