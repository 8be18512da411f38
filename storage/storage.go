// Package storage holds the backends banner and avatar images can be
// stored in. The backend is picked once at startup from storage.type.
package storage

import (
	"context"
	"fmt"
	"io"
)

type Storage interface {
	// Save stores the object under key and returns its public URL
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes a stored object. Missing objects are not an error
	Delete(ctx context.Context, key string) error
}

// New returns the backend matching the configured storage type
func New(storageType string) (Storage, error) {
	switch storageType {
	case "s3":
		return NewS3()
	case "local":
		return NewLocal()
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}
}
