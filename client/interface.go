package client

import (
	"context"

	"github.com/viant/detect/schema"
)

// Interface defines detection backend operations
type Interface interface {
	// Me returns the authenticated account
	Me(ctx context.Context) (*schema.User, error)

	// Upload sends an image from any afs supported URL
	Upload(ctx context.Context, URL string) (*schema.Upload, error)

	// Detect runs inference over an uploaded image
	Detect(ctx context.Context, fileID string) (*schema.Detection, error)

	// UploadAndDetect uploads an image and runs inference over it
	UploadAndDetect(ctx context.Context, URL string) (*schema.Detection, error)

	// Results lists detections, newest first
	Results(ctx context.Context) ([]*schema.Detection, error)

	// Result returns a single detection
	Result(ctx context.Context, id string) (*schema.Detection, error)

	// Summary returns analytics over the last days
	Summary(ctx context.Context, days int) (*schema.Summary, error)
}

var _ Interface = (*Client)(nil)
