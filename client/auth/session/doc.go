// Package session tracks whether the client is Anonymous, Authenticated or
// has a credential refresh in flight.
//
// Transitions are exclusive: BeginRefresh is a compare-and-set, so only one
// caller ever owns a refresh. Observers receive state changes on a channel
// instead of polling.
package session
