// Package storage provides image object storage for product uploads.
// Paths returned by a Store are opaque to the rest of the application; the
// catalog records them in submission order and never interprets them.
package storage

import (
	"context"
)

// ImageStore defines the interface for persisting product images.
type ImageStore interface {
	// Put writes the image bytes under the given path.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Delete removes a stored image. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
