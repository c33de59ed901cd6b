package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "trimmed", in: "  bob\t", want: "bob"},
		{name: "single char", in: "x", want: "x"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: " \n ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := New(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
				assert.Equal(t, "username", shared.ValidationField(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Username)
		})
	}
}
