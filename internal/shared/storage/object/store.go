// Package object abstracts blob storage for uploaded documents and
// derived artifacts. Implementations exist for the local filesystem
// and for S3.
package object

import (
	"context"
	"io"
)

// Store persists and retrieves blobs by key within a scope.
type Store interface {
	// Save writes the blob and returns the storage key it was written under.
	Save(ctx context.Context, scope, fileName string, r io.Reader) (string, error)
	// Open returns a reader for a previously saved key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
