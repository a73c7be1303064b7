package ports

import (
	"context"
	"io"
)

// BlobStore — object storage for uploaded visit audio. Objects live
// only between intake and successful processing.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
