// Package session defines the persisted session entry and the narrow storage
// capability it lives in.
package session

import (
	"context"
	"encoding/json"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
	"github.com/alem-hub/learning-portal/internal/domain/user"
)

// DefaultKey is the well-known key the session entry is stored under.
const DefaultKey = "lms_user"

// Storage is a durable key/value surface holding one JSON blob per key.
// Get reports found=false for an absent key; that is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by storages backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Encode serializes a user as the persisted session entry.
func Encode(u user.User) ([]byte, error) {
	return json.Marshal(u)
}

// Decode parses a persisted session entry. Malformed JSON, a non-object
// payload, or a blank username all yield shared.ErrStorageCorruption.
func Decode(raw []byte) (user.User, error) {
	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return user.User{}, shared.WrapError("session", "Decode", shared.ErrStorageCorruption, "malformed session entry", err)
	}
	if err := u.Validate(); err != nil {
		return user.User{}, shared.WrapError("session", "Decode", shared.ErrStorageCorruption, "session entry has no username", err)
	}
	return u, nil
}
