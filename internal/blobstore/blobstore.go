package blobstore

import (
	"context"
	"io"
)

// Client moves objects between the platform and an external bucket store.
// Failures surface as transfer errors, never as parsing errors.
type Client interface {
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, bucket, key string, body io.Reader) error
}
