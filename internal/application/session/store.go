// Package session owns the current-user identity on top of a session.Storage.
package session

import (
	"context"
	"fmt"

	domain "github.com/alem-hub/learning-portal/internal/domain/session"
	"github.com/alem-hub/learning-portal/internal/domain/shared"
	"github.com/alem-hub/learning-portal/internal/domain/user"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// The only writer of the persisted session entry. A missing, malformed or
// unreadable entry all read back as "no session". A panicking storage is
// treated as a corrupt one.
// ══════════════════════════════════════════════════════════════════════════════

// Store persists at most one logged-in user under a single key.
type Store struct {
	storage domain.Storage
	key     string
	log     *logger.Logger
}

// NewStore creates a Store. An empty key falls back to domain.DefaultKey.
func NewStore(storage domain.Storage, key string, log *logger.Logger) *Store {
	if key == "" {
		key = domain.DefaultKey
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		storage: storage,
		key:     key,
		log:     log.With(logger.Component("session_store")),
	}
}

// Key returns the storage key of the session entry.
func (s *Store) Key() string {
	return s.key
}

// Create validates u and writes it as the current session, replacing any
// previous one. The stored username is trimmed.
func (s *Store) Create(ctx context.Context, u user.User) (user.User, error) {
	u, err := user.New(u.Username)
	if err != nil {
		return user.User{}, err
	}

	raw, err := domain.Encode(u)
	if err != nil {
		return user.User{}, shared.WrapError("session", "Create", shared.ErrStorageCorruption, "encode session entry", err)
	}

	err = call("Create", func() error { return s.storage.Set(ctx, s.key, raw) })
	if err != nil {
		s.log.Error("session write failed", logger.StorageKey(s.key), logger.Err(err))
		if shared.IsStorageUnavailable(err) {
			return user.User{}, err
		}
		return user.User{}, shared.WrapError("session", "Create", shared.ErrStorageUnavailable, "write session entry", err)
	}

	return u, nil
}

// Current returns the logged-in user, or nil when there is none. Corrupt
// entries and storage failures are logged and reported as no session.
func (s *Store) Current(ctx context.Context) *user.User {
	var (
		raw   []byte
		found bool
	)
	err := call("Current", func() (err error) {
		raw, found, err = s.storage.Get(ctx, s.key)
		return err
	})
	if err != nil {
		s.readFailed(err)
		return nil
	}
	if !found {
		return nil
	}

	u, err := domain.Decode(raw)
	if err != nil {
		s.readFailed(err)
		return nil
	}
	return &u
}

func (s *Store) readFailed(err error) {
	if shared.IsStorageCorruption(err) {
		s.log.Error("discarding corrupt session entry", logger.StorageKey(s.key), logger.Err(err))
		return
	}
	s.log.Error("session read failed", logger.StorageKey(s.key), logger.Err(err))
}

// Clear removes the session entry. Clearing an absent session is a no-op and
// storage failures are only logged.
func (s *Store) Clear(ctx context.Context) {
	if err := call("Clear", func() error { return s.storage.Remove(ctx, s.key) }); err != nil {
		s.log.Error("session clear failed", logger.StorageKey(s.key), logger.Err(err))
	}
}

// call runs a storage operation and reports a panic inside it as
// ErrStorageCorruption.
func call(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.WrapError("session", op, shared.ErrStorageCorruption, "storage fault", fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}
