package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that are empty or contain path separators.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is a key-value blob store for uploaded image files.
// Keys are bare filenames; implementations must reject anything else.
// Delete is idempotent: deleting a missing key is not an error.
type Store interface {
	Write(ctx context.Context, key string, r io.Reader, size int64) error
	Exists(ctx context.Context, key string) (bool, error)
	Move(ctx context.Context, oldKey, newKey string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// validateKey rejects empty keys and keys that could escape the
// store's namespace when joined into a path.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return ErrInvalidKey
	}
	for _, c := range key {
		if c == '/' || c == '\\' {
			return ErrInvalidKey
		}
	}
	return nil
}
