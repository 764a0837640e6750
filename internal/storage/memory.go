package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory implementation of the Store interface,
// useful for testing. Safe for concurrent use.
type MemoryStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Write stores the blob under key.
func (m *MemoryStore) Write(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

// Exists reports whether a blob is stored under key.
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[key]
	return ok, nil
}

// Move renames the blob from oldKey to newKey.
func (m *MemoryStore) Move(ctx context.Context, oldKey, newKey string) error {
	if err := validateKey(oldKey); err != nil {
		return err
	}
	if err := validateKey(newKey); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[oldKey]
	if !ok {
		return fmt.Errorf("blob not found: %s", oldKey)
	}
	m.blobs[newKey] = data
	delete(m.blobs, oldKey)
	return nil
}

// Delete removes the blob under key. A missing key is not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// URL returns a stable fake URL for the blob under key.
func (m *MemoryStore) URL(key string) string {
	return "memory://" + key
}

// Get returns a copy of the stored blob, for test assertions.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

var _ Store = (*MemoryStore)(nil)
