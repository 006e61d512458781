package typesys

import "reflect"

// Type is an interned handle for a loaded descriptor. Two handles from the
// same Universe are equal iff they name the same type.
type Type struct {
	desc         Descriptor
	super        *Type
	capabilities []*Type
}

// Name returns the fully-qualified type name.
func (t *Type) Name() string { return t.desc.Name }

// Kind returns the descriptor kind.
func (t *Type) Kind() Kind { return t.desc.Kind }

// IsCapability reports whether t is interface-like.
func (t *Type) IsCapability() bool { return t.desc.Kind == Capability }

// IsAbstract reports whether t cannot be instantiated directly. Capabilities
// are always abstract.
func (t *Type) IsAbstract() bool { return t.desc.Abstract || t.desc.Kind == Capability }

// Super returns the parent class, or nil for Object and capabilities.
func (t *Type) Super() *Type { return t.super }

// Capabilities returns the directly declared capabilities.
func (t *Type) Capabilities() []*Type { return t.capabilities }

// HasDefaultConstructor reports whether t can be built without arguments.
func (t *Type) HasDefaultConstructor() bool {
	return t.desc.New != nil || t.desc.DefaultConstructor
}

// New invokes the registered factory. It returns nil when the type has no
// factory.
func (t *Type) New() any {
	if t.desc.New == nil {
		return nil
	}
	return t.desc.New()
}

// Version returns the descriptor version, possibly empty.
func (t *Type) Version() string { return t.desc.Version }

// Origin returns where the descriptor was read from, possibly empty.
func (t *Type) Origin() string { return t.desc.Origin }

// GoType returns the bound Go type, or nil.
func (t *Type) GoType() reflect.Type { return t.desc.GoType }

func (t *Type) String() string { return t.desc.Name }
