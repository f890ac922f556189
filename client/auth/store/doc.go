// Package store holds the process-wide session credentials: the access
// token, the refresh token and the display identity of the logged-in user.
//
// Every read and write is atomic with respect to the others, so no caller can
// observe an access token paired with a stale refresh token. Updates are
// written through to a kv.Store so a restarted process resumes its session.
package store
