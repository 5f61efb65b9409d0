package storage

import (
	"context"
	"io"
	"time"
)

// BlobStore is the object storage surface the editor depends on: upload a
// pending image under a derived key, then resolve the key to a fetchable URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

// URLExpiry is how long resolved (presigned) URLs stay valid.
const URLExpiry = 7 * 24 * time.Hour
