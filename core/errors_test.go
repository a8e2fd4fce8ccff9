package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFoundationError verifies formatting and unwrapping
func TestFoundationError(t *testing.T) {
	t.Run("op with id", func(t *testing.T) {
		err := &FoundationError{
			Op:  "env.GetEnv",
			ID:  "DATABASE_URL",
			Err: ErrEnvVarNotFound,
		}
		assert.Equal(t, "env.GetEnv [DATABASE_URL]: environment variable not found", err.Error())
		assert.True(t, errors.Is(err, ErrEnvVarNotFound))
	})

	t.Run("op without id", func(t *testing.T) {
		err := NewFoundationError("transport.ForScheme", "transport", ErrTransportNotFound)
		assert.Equal(t, "transport.ForScheme: transport not found", err.Error())
	})

	t.Run("message only", func(t *testing.T) {
		err := &FoundationError{Kind: "config", Message: "service name is required"}
		assert.Equal(t, "service name is required", err.Error())
	})

	t.Run("kind fallback", func(t *testing.T) {
		err := &FoundationError{Kind: "runner"}
		assert.Equal(t, "runner error", err.Error())
	})

	t.Run("wrapped chains survive fmt", func(t *testing.T) {
		inner := &FoundationError{Op: "env.GetEnv", ID: "X", Err: ErrSecretFileEmpty}
		outer := fmt.Errorf("loading config: %w", inner)
		assert.True(t, errors.Is(outer, ErrSecretFileEmpty))

		var ferr *FoundationError
		assert.True(t, errors.As(outer, &ferr))
		assert.Equal(t, "X", ferr.ID)
	})
}

// TestErrorClassification verifies the errors.Is helper predicates
func TestErrorClassification(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrap: %w", ErrEnvVarNotFound)))
	assert.True(t, IsNotFound(ErrTransportNotFound))
	assert.False(t, IsNotFound(ErrInvalidConfiguration))

	assert.True(t, IsConfigurationError(ErrMissingConfiguration))
	assert.True(t, IsConfigurationError(ErrSecretFileUnreadable))
	assert.False(t, IsConfigurationError(ErrConnectionFailed))

	assert.True(t, IsSecretError(ErrSecretFileEmpty))
	assert.False(t, IsSecretError(ErrEnvVarNotFound))
}
