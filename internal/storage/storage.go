package storage

import (
	"context"
	"io"
)

// BlobStore persists raw image bytes and returns a URL the stored object can
// later be served from. Implementations: LocalStore (disk + static route) and
// MinIOStorage (object storage + presigned GETs).
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
