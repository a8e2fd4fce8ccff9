// Package transport maintains a scheme-keyed registry of pluggable
// network protocol clients. Transports register a factory under a
// transport type plus the URI schemes it serves; callers resolve a
// factory by scheme. Registrations live in a registry.Hub, so a
// process can inject its own hub or use the package default.
package transport

import (
	"context"
	"fmt"

	"github.com/foundrykit/foundrykit/core"
)

// Type identifies a transport implementation family. The type's string
// value doubles as its registry name and, absent an explicit scheme
// list, its only scheme.
type Type string

// Well-known transport types
const (
	TypeHTTP      Type = "http"
	TypeGRPC      Type = "grpc"
	TypeWebSocket Type = "websocket"
	TypeUnix      Type = "unix"
)

// Transport is a pluggable network protocol client selected by URI scheme
type Transport interface {
	// Name returns the registered transport type name
	Name() string
	// Open establishes the transport against an endpoint
	Open(ctx context.Context, endpoint string) error
	// Close releases the transport's resources
	Close() error
}

// Factory builds a transport instance from runtime configuration
type Factory func(cfg *core.Config, logger core.Logger) (Transport, error)

// Info describes a registered transport without exposing its factory
type Info struct {
	Name     string
	Schemes  []string
	Metadata map[string]string
}

// NotFoundError reports a scheme or name with no registered transport
type NotFoundError struct {
	Scheme string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no transport registered for %q", e.Scheme)
}

// Unwrap makes the error match core.ErrTransportNotFound via errors.Is
func (e *NotFoundError) Unwrap() error {
	return core.ErrTransportNotFound
}
