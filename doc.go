// Package detect provides high-level helpers for the image detection dashboard client.
//
// The package glues the authenticated request pipeline of client/auth with a
// credential persistence chosen by configuration. In practice it is used as an
// umbrella package exposing NewClient, which returns a detection client whose
// session survives restarts when a durable store is selected.
//
// Example:
//
//	cli, release, _ := detect.NewClient(ctx, &detect.ClientOptions{URL: "http://localhost:8000", Store: "bolt"})
//	defer release()
package detect
