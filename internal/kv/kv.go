// Package kv is the key/value persistence boundary the progress store
// writes through. Backends: an in-memory map for tests and dev, and a
// SQL store (sqlite or postgres) for deployments.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for keys never written.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewInMemoryStore() Store {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
