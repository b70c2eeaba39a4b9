package repository

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by BlobStore.Read for a missing path.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds raw image bytes addressed by a relative, slash-separated path.
type BlobStore interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path. A missing path is not an error.
	Delete(ctx context.Context, path string) error
}
