package storage

import (
	"context"
	"io"
)

// ObjectStore persists uploaded objects and returns the URL they are served from.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
