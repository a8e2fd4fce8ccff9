package transport

import (
	"strings"

	"github.com/foundrykit/foundrykit/core"
	"github.com/foundrykit/foundrykit/registry"
)

// Dimension is the hub dimension under which transports register
const Dimension = "transport"

// entry is the hub value for one registered transport
type entry struct {
	factory Factory
	schemes []string
}

type registerOptions struct {
	schemes  []string
	metadata map[string]string
	replace  bool
}

// RegisterOption configures a transport registration
type RegisterOption func(*registerOptions)

// WithSchemes sets the URI schemes the transport serves. Without this
// option the transport serves only its own type name.
func WithSchemes(schemes ...string) RegisterOption {
	return func(o *registerOptions) {
		o.schemes = schemes
	}
}

// WithMetadata attaches an annotation to the registration
func WithMetadata(key, value string) RegisterOption {
	return func(o *registerOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]string)
		}
		o.metadata[key] = value
	}
}

// Replace allows overwriting an existing registration of the same type
func Replace() RegisterOption {
	return func(o *registerOptions) {
		o.replace = true
	}
}

// Registry maps transport types and their URI schemes to factories.
// It stores registrations in a registry.Hub under Dimension, so hub
// announcement covers transports automatically.
type Registry struct {
	hub *registry.Hub
}

// NewRegistry creates a transport registry backed by the given hub.
// A nil hub gets a private one.
func NewRegistry(hub *registry.Hub) *Registry {
	if hub == nil {
		hub = registry.NewHub()
	}
	return &Registry{hub: hub}
}

// Hub exposes the backing hub, e.g. for announcement
func (r *Registry) Hub() *registry.Hub {
	return r.hub
}

// Register stores a factory keyed by the transport type's string value.
// Schemes are lowercased; the scheme list is also recorded in the hub
// metadata so announcements carry it.
func (r *Registry) Register(t Type, factory Factory, opts ...RegisterOption) error {
	if factory == nil {
		return &core.FoundationError{
			Op:      "transport.Register",
			Kind:    "transport",
			ID:      string(t),
			Message: "factory is required",
			Err:     core.ErrInvalidConfiguration,
		}
	}

	o := registerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.schemes) == 0 {
		o.schemes = []string{string(t)}
	}
	schemes := make([]string, len(o.schemes))
	for i, s := range o.schemes {
		schemes[i] = strings.ToLower(strings.TrimSpace(s))
	}

	metadata := make(map[string]string, len(o.metadata)+1)
	for k, v := range o.metadata {
		metadata[k] = v
	}
	metadata["schemes"] = strings.Join(schemes, ",")

	return r.hub.Register(registry.Registration{
		Dimension: Dimension,
		Name:      string(t),
		Value:     entry{factory: factory, schemes: schemes},
		Metadata:  metadata,
	}, o.replace)
}

// ForScheme resolves a factory by URI scheme. The query is lowercased
// and matched against registered scheme lists in registration order;
// the first match wins. Returns *NotFoundError when nothing matches.
func (r *Registry) ForScheme(scheme string) (Factory, error) {
	query := strings.ToLower(strings.TrimSpace(scheme))
	for _, reg := range r.hub.List(Dimension) {
		e, ok := reg.Value.(entry)
		if !ok {
			continue
		}
		for _, s := range e.schemes {
			if s == query {
				return e.factory, nil
			}
		}
	}
	return nil, &NotFoundError{Scheme: scheme}
}

// Info resolves a registered transport by exact type name first, then
// by scheme membership.
func (r *Registry) Info(nameOrScheme string) (*Info, error) {
	query := strings.ToLower(strings.TrimSpace(nameOrScheme))

	if reg, ok := r.hub.Get(Dimension, query); ok {
		return infoFromRegistration(reg), nil
	}
	for _, reg := range r.hub.List(Dimension) {
		e, ok := reg.Value.(entry)
		if !ok {
			continue
		}
		for _, s := range e.schemes {
			if s == query {
				return infoFromRegistration(reg), nil
			}
		}
	}
	return nil, &NotFoundError{Scheme: nameOrScheme}
}

func infoFromRegistration(reg registry.Registration) *Info {
	e, _ := reg.Value.(entry)
	schemes := make([]string, len(e.schemes))
	copy(schemes, e.schemes)
	return &Info{
		Name:     reg.Name,
		Schemes:  schemes,
		Metadata: reg.Metadata,
	}
}

// Names returns the registered transport type names in registration order
func (r *Registry) Names() []string {
	regs := r.hub.List(Dimension)
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.Name
	}
	return names
}

// New resolves a factory by scheme and invokes it
func (r *Registry) New(scheme string, cfg *core.Config, logger core.Logger) (Transport, error) {
	factory, err := r.ForScheme(scheme)
	if err != nil {
		return nil, err
	}
	return factory(cfg, logger)
}

// DefaultRegistry is the process-wide transport registry
var DefaultRegistry = NewRegistry(nil)

// Register adds a transport to the default registry
func Register(t Type, factory Factory, opts ...RegisterOption) error {
	return DefaultRegistry.Register(t, factory, opts...)
}

// ForScheme resolves a factory from the default registry
func ForScheme(scheme string) (Factory, error) {
	return DefaultRegistry.ForScheme(scheme)
}

// GetInfo resolves transport info from the default registry
func GetInfo(nameOrScheme string) (*Info, error) {
	return DefaultRegistry.Info(nameOrScheme)
}
