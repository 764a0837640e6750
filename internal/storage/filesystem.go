package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemStore keeps blobs as plain files under a root directory.
// Writes go through a temp file and an atomic rename so a partially
// written upload is never visible under its final key.
type FileSystemStore struct {
	root    string
	baseURL string
}

// NewFileSystemStore creates a filesystem store rooted at the given path.
func NewFileSystemStore(root, baseURL string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileSystemStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Write stores the blob under key.
func (s *FileSystemStore) Write(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.root, key)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *FileSystemStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

// Move renames the blob from oldKey to newKey.
func (s *FileSystemStore) Move(ctx context.Context, oldKey, newKey string) error {
	if err := validateKey(oldKey); err != nil {
		return err
	}
	if err := validateKey(newKey); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(s.root, oldKey), filepath.Join(s.root, newKey)); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", oldKey, newKey, err)
	}
	return nil
}

// Delete removes the blob under key. A missing key is not an error.
func (s *FileSystemStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL for the blob under key.
func (s *FileSystemStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// Root returns the store's root directory.
func (s *FileSystemStore) Root() string {
	return s.root
}

var _ Store = (*FileSystemStore)(nil)
