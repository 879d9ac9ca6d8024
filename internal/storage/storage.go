// Package storage provides object storage for uploaded source files.
package storage

import "context"

// ObjectStore stores raw uploaded files by path.
type ObjectStore interface {
	// Put uploads content at the given path, overwriting any existing object.
	Put(ctx context.Context, path string, content []byte, contentType string) error
	// Get downloads the object at the given path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete removes the object at the given path. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, path string) error
}
