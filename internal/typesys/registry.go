package typesys

import (
	"fmt"
	"sort"
	"sync"
)

// Source supplies descriptors by name. Implementations return an error
// wrapping ErrUnknownType when they do not know a name, so a Universe can
// fall through to the next source.
type Source interface {
	Describe(name string) (*Descriptor, error)
}

// Registry is a Source populated at start-up, typically from init functions
// of plugin packages linked into the binary.
type Registry struct {
	mu    sync.RWMutex
	descs map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{descs: make(map[string]Descriptor)}
}

// Register adds a descriptor. Registering the same name twice is an error.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descs[d.Name]; exists {
		return fmt.Errorf("type %q already registered", d.Name)
	}
	d.Implements = append([]string(nil), d.Implements...)
	d.Requires = append([]string(nil), d.Requires...)
	r.descs[d.Name] = d
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Describe implements Source.
func (r *Registry) Describe(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return &d, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descs[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.descs))
	for name := range r.descs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builtin = NewRegistry()

// Builtin returns the process-wide registry. Plugin packages linked into the
// binary add their types to it from init, and the CLI consults it before the
// discovered unit files.
func Builtin() *Registry { return builtin }

// Register adds d to the process-wide registry and panics on error.
//
//	func init() {
//		typesys.Register(typesys.Descriptor{Name: "acme.Exporter", Kind: typesys.Capability})
//	}
func Register(d Descriptor) { builtin.MustRegister(d) }
