// Package client provides a typed client for the image detection backend.
//
// Every resource call goes through the authenticated request pipeline of the
// auth package, so expired access tokens are refreshed and the call replayed
// transparently. Calls fail with schema.ErrSessionExpired once the session
// can no longer be renewed.
//
// Example:
//
//	cli := client.New(ctx, "http://localhost:8000")
//	if _, err := cli.Login(ctx, "alice", "pw"); err != nil { ... }
//	detection, err := cli.UploadAndDetect(ctx, "/tmp/street.jpg")
package client
