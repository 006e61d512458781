package typesys

import (
	"errors"
	"fmt"
	"sync"
)

// Universe resolves names to interned Type handles by consulting its sources
// in order. Successful loads are cached for the lifetime of the Universe;
// failures are not, so the caller decides whether to retry.
type Universe struct {
	sources []Source
	env     Environment

	mu      sync.Mutex
	types   map[string]*Type
	loading map[string]bool
}

// NewUniverse creates a Universe over the given sources. A nil env means
// HostEnvironment.
func NewUniverse(env Environment, sources ...Source) *Universe {
	if env == nil {
		env = HostEnvironment()
	}
	u := &Universe{
		sources: sources,
		env:     env,
		types:   make(map[string]*Type),
		loading: make(map[string]bool),
	}
	root := &Type{desc: Descriptor{Name: Object, Kind: Class}}
	u.types[Object] = root
	u.types[Serializable] = &Type{desc: Descriptor{Name: Serializable, Kind: Capability}}
	return u
}

// Root returns the universal root class.
func (u *Universe) Root() *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.types[Object]
}

// Load returns the handle for name, loading its ancestor chain and declared
// capabilities first. The returned error is an *EnvironmentError (possibly
// wrapped) when the host lacks a required feature and an
// *IntrospectionError otherwise.
func (u *Universe) Load(name string) (*Type, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.load(name)
}

// Loaded reports whether name has been interned already.
func (u *Universe) Loaded(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.types[name]
	return ok
}

func (u *Universe) load(name string) (*Type, error) {
	if t, ok := u.types[name]; ok {
		return t, nil
	}
	if u.loading[name] {
		return nil, &IntrospectionError{Type: name, Err: ErrCycle}
	}
	u.loading[name] = true
	defer delete(u.loading, name)

	desc, err := u.describe(name)
	if err != nil {
		return nil, &IntrospectionError{Type: name, Err: err}
	}
	for _, feature := range desc.Requires {
		if !u.env.Has(feature) {
			return nil, &EnvironmentError{Type: name, Feature: feature}
		}
	}

	t := &Type{desc: *desc}
	if desc.Kind == Class {
		parent := desc.Extends
		if parent == "" {
			parent = Object
		}
		super, err := u.load(parent)
		if err != nil {
			return nil, fmt.Errorf("loading parent of %s: %w", name, err)
		}
		if super.IsCapability() {
			return nil, &IntrospectionError{Type: name, Err: fmt.Errorf("%w: parent %s is a capability", ErrNotCapability, parent)}
		}
		t.super = super
	}
	for _, capName := range desc.Implements {
		c, err := u.load(capName)
		if err != nil {
			return nil, fmt.Errorf("loading capability %s of %s: %w", capName, name, err)
		}
		if !c.IsCapability() {
			return nil, &IntrospectionError{Type: name, Err: fmt.Errorf("%w: %s is not a capability", ErrNotCapability, capName)}
		}
		t.capabilities = append(t.capabilities, c)
	}

	u.types[name] = t
	return t, nil
}

func (u *Universe) describe(name string) (*Descriptor, error) {
	for _, src := range u.sources {
		d, err := src.Describe(name)
		if errors.Is(err, ErrUnknownType) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if d.Name != name {
			return nil, fmt.Errorf("source described %q when asked for %q", d.Name, name)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
}
