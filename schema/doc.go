// Package schema defines the wire types exchanged with the detection backend
// together with the error taxonomy surfaced by the client.
package schema
