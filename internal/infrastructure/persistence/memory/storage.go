// Package memory provides an in-process session storage. It is the default
// backend for local runs and the fake used throughout the tests.
package memory

import (
	"context"
	"sync"
)

// Storage keeps values in a map guarded by a mutex. Values are copied on the
// way in and out so callers never share a backing array with the store.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (s *Storage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Storage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }
