// Package registry provides a generic in-process component registry
// (the Hub) keyed by (dimension, name) pairs, plus an optional Redis
// announcer that mirrors registration descriptors for cross-process
// discovery. The Hub is an explicit injected instance; packages that
// want a process-wide registry hold their own default Hub.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/foundrykit/foundrykit/core"
)

// Registration describes one component held by a Hub. Value is the
// component itself (a factory, an implementation, a descriptor);
// Metadata carries arbitrary string annotations.
type Registration struct {
	Dimension string
	Name      string
	Value     interface{}
	Metadata  map[string]string
}

type hubKey struct {
	dimension string
	name      string
}

// Hub is a thread-safe component registry keyed by (dimension, name).
// Entries within a dimension keep registration order, which lookup
// helpers built on the Hub (e.g. transport scheme resolution) rely on.
type Hub struct {
	mu      sync.RWMutex
	entries map[hubKey]Registration
	order   map[string][]string
}

// NewHub creates an empty registry
func NewHub() *Hub {
	return &Hub{
		entries: make(map[hubKey]Registration),
		order:   make(map[string][]string),
	}
}

// Register adds a component to the hub. Registering an existing
// (dimension, name) pair fails unless replace is true; replacement
// keeps the entry's original position in the dimension order.
func (h *Hub) Register(reg Registration, replace bool) error {
	if reg.Dimension == "" || reg.Name == "" {
		return &core.FoundationError{
			Op:      "registry.Register",
			Kind:    "registry",
			Message: "registration requires a dimension and a name",
			Err:     core.ErrInvalidConfiguration,
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	k := hubKey{reg.Dimension, reg.Name}
	_, exists := h.entries[k]
	if exists && !replace {
		return &core.FoundationError{
			Op:   "registry.Register",
			Kind: "registry",
			ID:   reg.Dimension + "/" + reg.Name,
			Err:  core.ErrAlreadyRegistered,
		}
	}

	reg.Metadata = copyMetadata(reg.Metadata)
	h.entries[k] = reg
	if !exists {
		h.order[reg.Dimension] = append(h.order[reg.Dimension], reg.Name)
	}
	return nil
}

// Get returns the registration for (dimension, name)
func (h *Hub) Get(dimension, name string) (Registration, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	reg, ok := h.entries[hubKey{dimension, name}]
	if !ok {
		return Registration{}, false
	}
	reg.Metadata = copyMetadata(reg.Metadata)
	return reg, true
}

// Lookup is Get with a structured not-found error
func (h *Hub) Lookup(dimension, name string) (Registration, error) {
	reg, ok := h.Get(dimension, name)
	if !ok {
		return Registration{}, &core.FoundationError{
			Op:   "registry.Lookup",
			Kind: "registry",
			ID:   dimension + "/" + name,
			Err:  fmt.Errorf("%s %q: %w", dimension, name, core.ErrNotRegistered),
		}
	}
	return reg, nil
}

// List returns all registrations in a dimension in registration order
func (h *Hub) List(dimension string) []Registration {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := h.order[dimension]
	out := make([]Registration, 0, len(names))
	for _, name := range names {
		reg := h.entries[hubKey{dimension, name}]
		reg.Metadata = copyMetadata(reg.Metadata)
		out = append(out, reg)
	}
	return out
}

// Unregister removes a registration
func (h *Hub) Unregister(dimension, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := hubKey{dimension, name}
	if _, ok := h.entries[k]; !ok {
		return &core.FoundationError{
			Op:   "registry.Unregister",
			Kind: "registry",
			ID:   dimension + "/" + name,
			Err:  fmt.Errorf("%s %q: %w", dimension, name, core.ErrNotRegistered),
		}
	}
	delete(h.entries, k)

	names := h.order[dimension]
	for i, n := range names {
		if n == name {
			h.order[dimension] = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(h.order[dimension]) == 0 {
		delete(h.order, dimension)
	}
	return nil
}

// Dimensions returns the sorted list of dimensions with registrations
func (h *Hub) Dimensions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dims := make([]string, 0, len(h.order))
	for d := range h.order {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}

// Len returns the number of registrations in a dimension
func (h *Hub) Len(dimension string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order[dimension])
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
