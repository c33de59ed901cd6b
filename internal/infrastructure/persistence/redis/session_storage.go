package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
)

// SessionStorage implements session.Storage on top of Cache. Keys are stored
// under PrefixSession and expire after ttl (0 = never).
type SessionStorage struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage(cache *Cache, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		cache: cache,
		ttl:   ttl,
	}
}

// Get returns the raw session entry stored under key.
func (s *SessionStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.cache.GetRaw(ctx, SessionKey(key))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, shared.WrapError("redis", "Get", shared.ErrStorageUnavailable, "session read failed", err)
	}
	return data, true, nil
}

// Set writes the raw session entry, refreshing its TTL.
func (s *SessionStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.cache.SetRaw(ctx, SessionKey(key), value, s.ttl); err != nil {
		return shared.WrapError("redis", "Set", shared.ErrStorageUnavailable, "session write failed", err)
	}
	return nil
}

// Remove deletes the session entry.
func (s *SessionStorage) Remove(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, SessionKey(key)); err != nil {
		return shared.WrapError("redis", "Remove", shared.ErrStorageUnavailable, "session delete failed", err)
	}
	return nil
}

// Ping checks the underlying Redis connection.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}
