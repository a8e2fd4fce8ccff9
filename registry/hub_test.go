package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundrykit/foundrykit/core"
)

// TestHubRegisterAndGet verifies basic registration and retrieval
func TestHubRegisterAndGet(t *testing.T) {
	hub := NewHub()

	err := hub.Register(Registration{
		Dimension: "codec",
		Name:      "json",
		Value:     "json-codec",
		Metadata:  map[string]string{"content_type": "application/json"},
	}, false)
	require.NoError(t, err)

	reg, ok := hub.Get("codec", "json")
	require.True(t, ok)
	assert.Equal(t, "json-codec", reg.Value)
	assert.Equal(t, "application/json", reg.Metadata["content_type"])

	_, ok = hub.Get("codec", "xml")
	assert.False(t, ok)

	_, ok = hub.Get("transport", "json")
	assert.False(t, ok, "dimensions are independent keyspaces")
}

// TestHubDuplicateRegistration verifies replace semantics
func TestHubDuplicateRegistration(t *testing.T) {
	hub := NewHub()
	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "json", Value: 1}, false))

	err := hub.Register(Registration{Dimension: "codec", Name: "json", Value: 2}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAlreadyRegistered))

	reg, _ := hub.Get("codec", "json")
	assert.Equal(t, 1, reg.Value, "failed registration must not overwrite")

	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "json", Value: 2}, true))
	reg, _ = hub.Get("codec", "json")
	assert.Equal(t, 2, reg.Value)
}

// TestHubValidation verifies empty keys are rejected
func TestHubValidation(t *testing.T) {
	hub := NewHub()

	err := hub.Register(Registration{Name: "json"}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration))

	err = hub.Register(Registration{Dimension: "codec"}, false)
	require.Error(t, err)
}

// TestHubListOrder verifies registration order is preserved, including
// across replacement
func TestHubListOrder(t *testing.T) {
	hub := NewHub()
	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: name}, false))
	}

	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "alpha", Value: "v2"}, true))

	regs := hub.List("codec")
	require.Len(t, regs, 3)
	assert.Equal(t, "alpha", regs[0].Name)
	assert.Equal(t, "beta", regs[1].Name)
	assert.Equal(t, "gamma", regs[2].Name)
	assert.Equal(t, "v2", regs[0].Value)

	assert.Empty(t, hub.List("transport"))
}

// TestHubLookup verifies the structured not-found error
func TestHubLookup(t *testing.T) {
	hub := NewHub()

	_, err := hub.Lookup("codec", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotRegistered))
	assert.Contains(t, err.Error(), "json")
}

// TestHubUnregister verifies removal and order compaction
func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "json"}, false))
	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "cbor"}, false))

	require.NoError(t, hub.Unregister("codec", "json"))
	_, ok := hub.Get("codec", "json")
	assert.False(t, ok)

	regs := hub.List("codec")
	require.Len(t, regs, 1)
	assert.Equal(t, "cbor", regs[0].Name)

	err := hub.Unregister("codec", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotRegistered))

	require.NoError(t, hub.Unregister("codec", "cbor"))
	assert.Empty(t, hub.Dimensions())
}

// TestHubMetadataIsolation verifies callers cannot mutate hub state
// through returned metadata maps
func TestHubMetadataIsolation(t *testing.T) {
	hub := NewHub()
	meta := map[string]string{"k": "original"}
	require.NoError(t, hub.Register(Registration{Dimension: "codec", Name: "json", Metadata: meta}, false))

	meta["k"] = "mutated-input"
	reg, _ := hub.Get("codec", "json")
	assert.Equal(t, "original", reg.Metadata["k"])

	reg.Metadata["k"] = "mutated-output"
	reg2, _ := hub.Get("codec", "json")
	assert.Equal(t, "original", reg2.Metadata["k"])
}

// TestHubConcurrentAccess verifies registrations survive contention
func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				name := fmt.Sprintf("c-%d-%d", id, i)
				_ = hub.Register(Registration{Dimension: "codec", Name: name, Value: i}, false)
				_ = hub.List("codec")
				_, _ = hub.Get("codec", name)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, hub.Len("codec"))
}
