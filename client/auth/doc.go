// Package auth wires the client-side session: the credential store, the
// session state machine, the refresh coordinator and the authenticating
// transport, and exposes login and logout on top of them.
//
// A Service is the single owner of the session state. Callers issue requests
// through Service.HTTPClient; protected views observe Service.Subscribe to
// decide whether to show the login screen.
package auth
