package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("authenticate: %w", ErrEmptyUsername)

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "username", ValidationField(err))
}

func TestDomainError_WrapKeepsUnderlying(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := WrapError("session", "Current", ErrStorageCorruption, "malformed session", cause)

	assert.True(t, IsStorageCorruption(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "session.Current: malformed session: unexpected end of JSON input", err.Error())
}

func TestValidationField_NonValidation(t *testing.T) {
	assert.Empty(t, ValidationField(errors.New("plain")))
	assert.Empty(t, ValidationField(NewDomainError("course", "Find", ErrNotFound, "missing")))
}
