// Package user defines the identity carried by a session.
package user

import (
	"strings"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
)

// User is the logged-in identity. One user at a time; usernames are not unique.
type User struct {
	Username string `json:"username"`
}

// Credentials is what the login form submits. Email and Password come from
// the signup variant of the form; they are accepted but never stored or logged.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// New creates a User from a raw username, trimming surrounding whitespace.
// Returns shared.ErrEmptyUsername when nothing is left.
func New(username string) (User, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return User{}, shared.ErrEmptyUsername
	}
	return User{Username: name}, nil
}

// Validate checks the invariant on an already constructed User.
func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return shared.ErrEmptyUsername
	}
	return nil
}
