package postgres

import (
	"context"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
)

// SessionStorage implements session.Storage over the session_entries table.
type SessionStorage struct {
	conn *Connection
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage(conn *Connection) *SessionStorage {
	return &SessionStorage{conn: conn}
}

// Get returns the stored value for key.
func (s *SessionStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.conn.QueryRow(ctx, `SELECT value FROM session_entries WHERE key = $1`, key).Scan(&value)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("postgres", "Get", shared.ErrStorageUnavailable, "session read failed", err)
	}
	return []byte(value), true, nil
}

// Set upserts the value for key.
func (s *SessionStorage) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO session_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, string(value))
	if err != nil {
		return shared.WrapError("postgres", "Set", shared.ErrStorageUnavailable, "session write failed", err)
	}
	return nil
}

// Remove deletes key. Deleting a missing key is not an error.
func (s *SessionStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM session_entries WHERE key = $1`, key); err != nil {
		return shared.WrapError("postgres", "Remove", shared.ErrStorageUnavailable, "session delete failed", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
