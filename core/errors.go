package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Environment / configuration errors
	ErrEnvVarNotFound       = errors.New("environment variable not found")
	ErrSecretFileEmpty      = errors.New("secret file is empty")
	ErrSecretFileUnreadable = errors.New("secret file unreadable")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Registry errors
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrTransportNotFound = errors.New("transport not found")

	// Process errors
	ErrProcessFailed = errors.New("process exited with failure")

	// State errors
	ErrNotInitialized = errors.New("not initialized")

	// Operation errors
	ErrTimeout         = errors.New("operation timeout")
	ErrContextCanceled = errors.New("context canceled")

	// Network errors
	ErrConnectionFailed = errors.New("connection failed")
)

// FoundationError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type FoundationError struct {
	Op      string // Operation that failed (e.g., "env.GetEnv")
	Kind    string // Error kind (e.g., "env", "transport", "runner")
	ID      string // Optional ID of the entity involved (variable name, scheme, ...)
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *FoundationError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *FoundationError) Unwrap() error {
	return e.Err
}

// NewFoundationError creates a new FoundationError
func NewFoundationError(op, kind string, err error) *FoundationError {
	return &FoundationError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEnvVarNotFound) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrTransportNotFound)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration) ||
		errors.Is(err, ErrEnvVarNotFound) ||
		errors.Is(err, ErrSecretFileEmpty) ||
		errors.Is(err, ErrSecretFileUnreadable)
}

// IsSecretError checks if an error came from file:// secret resolution
func IsSecretError(err error) bool {
	return errors.Is(err, ErrSecretFileEmpty) ||
		errors.Is(err, ErrSecretFileUnreadable)
}
