// Package kv defines the durable key-value port used to persist session
// credentials between process runs.
//
// It ships with an in-memory implementation for tests and short-lived tools,
// a file implementation built on viant/afs, an embedded bbolt implementation
// and a redis implementation for credentials shared between hosts.
package kv
