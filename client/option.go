package client

import (
	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/detect/client/auth"
)

// Option represents option
type Option func(c *Client)

// WithAuthOptions passes options to the underlying session
func WithAuthOptions(options ...auth.Option) Option {
	return func(c *Client) {
		c.authOptions = append(c.authOptions, options...)
	}
}

// WithFileSystem sets the file system uploads are read from
func WithFileSystem(fs afs.Service) Option {
	return func(c *Client) {
		c.fs = fs
	}
}

// WithLogger sets logger for the client and its session
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.authOptions = append(c.authOptions, auth.WithLogger(logger))
	}
}
