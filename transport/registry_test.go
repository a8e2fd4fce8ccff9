package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundrykit/foundrykit/core"
	"github.com/foundrykit/foundrykit/registry"
)

// fakeTransport is a minimal Transport for registry tests
type fakeTransport struct {
	name string
}

func (f *fakeTransport) Name() string                           { return f.name }
func (f *fakeTransport) Open(_ context.Context, _ string) error { return nil }
func (f *fakeTransport) Close() error                           { return nil }

func fakeFactory(name string) Factory {
	return func(_ *core.Config, _ core.Logger) (Transport, error) {
		return &fakeTransport{name: name}, nil
	}
}

// TestRegisterAndForScheme verifies scheme resolution
func TestRegisterAndForScheme(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("http"), WithSchemes("http", "https")))
	require.NoError(t, r.Register(TypeGRPC, fakeFactory("grpc")))

	t.Run("listed scheme resolves", func(t *testing.T) {
		factory, err := r.ForScheme("https")
		require.NoError(t, err)

		tr, err := factory(core.DefaultConfig(), &core.NoOpLogger{})
		require.NoError(t, err)
		assert.Equal(t, "http", tr.Name())
	})

	t.Run("scheme lookup is case-insensitive", func(t *testing.T) {
		_, err := r.ForScheme("HTTPS")
		require.NoError(t, err)
	})

	t.Run("default scheme is the type name", func(t *testing.T) {
		_, err := r.ForScheme("grpc")
		require.NoError(t, err)
	})

	t.Run("unknown scheme fails", func(t *testing.T) {
		_, err := r.ForScheme("amqp")
		require.Error(t, err)

		var nfe *NotFoundError
		require.True(t, errors.As(err, &nfe))
		assert.Equal(t, "amqp", nfe.Scheme)
		assert.True(t, errors.Is(err, core.ErrTransportNotFound))
	})
}

// TestRegisterValidation verifies registration preconditions
func TestRegisterValidation(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(TypeHTTP, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration))
}

// TestRegisterReplace verifies duplicate and replace semantics
func TestRegisterReplace(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("v1"), WithSchemes("http")))

	err := r.Register(TypeHTTP, fakeFactory("v2"), WithSchemes("http", "https"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAlreadyRegistered))

	require.NoError(t, r.Register(TypeHTTP, fakeFactory("v2"), WithSchemes("http", "https"), Replace()))

	factory, err := r.ForScheme("https")
	require.NoError(t, err)
	tr, _ := factory(nil, nil)
	assert.Equal(t, "v2", tr.Name())
}

// TestFirstMatchWins verifies registration-order scanning when two
// transports claim the same scheme
func TestFirstMatchWins(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("first"), WithSchemes("http", "shared")))
	require.NoError(t, r.Register(TypeWebSocket, fakeFactory("second"), WithSchemes("ws", "shared")))

	factory, err := r.ForScheme("shared")
	require.NoError(t, err)
	tr, _ := factory(nil, nil)
	assert.Equal(t, "first", tr.Name())
}

// TestInfo verifies name-first, scheme-second resolution
func TestInfo(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeWebSocket, fakeFactory("ws"),
		WithSchemes("ws", "wss"),
		WithMetadata("secure", "optional"),
	))

	t.Run("by exact name", func(t *testing.T) {
		info, err := r.Info("websocket")
		require.NoError(t, err)
		assert.Equal(t, "websocket", info.Name)
		assert.Equal(t, []string{"ws", "wss"}, info.Schemes)
		assert.Equal(t, "optional", info.Metadata["secure"])
		assert.Equal(t, "ws,wss", info.Metadata["schemes"])
	})

	t.Run("by scheme membership", func(t *testing.T) {
		info, err := r.Info("wss")
		require.NoError(t, err)
		assert.Equal(t, "websocket", info.Name)
	})

	t.Run("unresolvable", func(t *testing.T) {
		_, err := r.Info("carrier-pigeon")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrTransportNotFound))
	})
}

// TestNames verifies registration-order listing
func TestNames(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeGRPC, fakeFactory("grpc")))
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("http")))

	assert.Equal(t, []string{"grpc", "http"}, r.Names())
}

// TestNew verifies factory invocation through the registry
func TestNew(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("http"), WithSchemes("http", "https")))

	tr, err := r.New("https", core.DefaultConfig(), &core.NoOpLogger{})
	require.NoError(t, err)
	assert.Equal(t, "http", tr.Name())

	_, err = r.New("gopher", nil, nil)
	require.Error(t, err)
}

// TestInjectedHub verifies transports share a caller-owned hub
func TestInjectedHub(t *testing.T) {
	hub := registry.NewHub()
	r := NewRegistry(hub)
	require.NoError(t, r.Register(TypeHTTP, fakeFactory("http"), WithSchemes("http", "https")))

	regs := hub.List(Dimension)
	require.Len(t, regs, 1)
	assert.Equal(t, "http", regs[0].Name)
	assert.Equal(t, "http,https", regs[0].Metadata["schemes"])
	assert.Same(t, hub, r.Hub())
}

// TestDefaultRegistry verifies the package-level wrappers
func TestDefaultRegistry(t *testing.T) {
	// private type keeps this test isolated from other registrations
	const typeTest Type = "registry-test"

	require.NoError(t, Register(typeTest, fakeFactory("t"), WithSchemes("registry-test+s")))

	_, err := ForScheme("registry-test+s")
	require.NoError(t, err)

	info, err := GetInfo(string(typeTest))
	require.NoError(t, err)
	assert.Equal(t, string(typeTest), info.Name)
}
