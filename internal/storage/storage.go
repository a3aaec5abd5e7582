package storage

import (
	"context"
	"io"
)

// Storage persists uploaded document files. The database stores only the
// relative path a Save call returns.
type Storage interface {
	// Save writes content under the given relative path and returns the
	// path as stored.
	Save(ctx context.Context, path string, content io.Reader) (string, error)

	// Open returns the content previously saved under path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the content previously saved under path.
	Remove(ctx context.Context, path string) error
}
