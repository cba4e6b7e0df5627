package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError(42)

	assert.EqualError(t, err, "quote 42 not found")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnavailable(err))

	var nf *NotFoundError
	require.ErrorAs(t, fmt.Errorf("lookup: %w", err), &nf)
	assert.Equal(t, int64(42), nf.ID)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		field, message, want string
	}{
		{"text", "must not be empty", "validation failed for text: must not be empty"},
		{"", "bad batch", "validation failed: bad batch"},
	}

	for _, tt := range tests {
		err := NewValidationError(tt.field, tt.message)

		assert.EqualError(t, err, tt.want)
		assert.True(t, IsValidation(err))
		assert.False(t, IsNotFound(err))
	}
}

func TestUnavailableError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	t.Run("reason only", func(t *testing.T) {
		err := NewUnavailableError("zenquotes", "status 503")

		assert.EqualError(t, err, "zenquotes unavailable: status 503")
		assert.True(t, IsUnavailable(err))
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		err := WrapUnavailable("zenquotes", "", cause)

		assert.EqualError(t, err, "zenquotes unavailable: dial tcp: connection refused")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("reason wins over cause in the message", func(t *testing.T) {
		err := WrapUnavailable("zenquotes", "gave up", cause)

		assert.EqualError(t, err, "zenquotes unavailable: gave up")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bare", func(t *testing.T) {
		assert.EqualError(t, &UnavailableError{Service: "store"}, "store unavailable")
	})
}

func TestIsNoContent(t *testing.T) {
	assert.True(t, IsNoContent(fmt.Errorf("random quote: %w", ErrNoContent)))
	assert.False(t, IsNoContent(ErrNotFound))
	assert.False(t, IsNoContent(nil))
}
