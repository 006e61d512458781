package typesys

import (
	"fmt"
	"reflect"
)

// Kind distinguishes concrete-or-abstract classes from capabilities.
type Kind int

const (
	// Class types form a single-inheritance chain rooted at Object.
	Class Kind = iota
	// Capability types are interface-like behaviours a class may satisfy.
	Capability
)

func (k Kind) String() string {
	switch k {
	case Class:
		return "class"
	case Capability:
		return "capability"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts "class" or "capability" into a Kind. The empty string
// means Class.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "class":
		return Class, nil
	case "capability", "interface":
		return Capability, nil
	default:
		return Class, fmt.Errorf("unknown kind %q", s)
	}
}

// Built-in type names.
const (
	// Object is the universal root of every class chain.
	Object = "typesys.Object"
	// Serializable is the capability checked by the only-serializable filter.
	Serializable = "typesys.Serializable"
)

// Descriptor declares a type. For classes, Extends names the parent class
// (empty means Object) and Implements lists capabilities. For capabilities,
// Implements lists the capabilities they extend.
type Descriptor struct {
	Name       string
	Kind       Kind
	Extends    string
	Implements []string
	Abstract   bool

	// DefaultConstructor reports a zero-argument constructor for types that
	// carry no factory, such as those described by unit files.
	DefaultConstructor bool
	New                func() any

	// Requires lists host features that must be present to introspect the
	// type, e.g. "display".
	Requires []string
	Version  string
	Origin   string

	// GoType optionally ties the descriptor to a Go type. When both sides of
	// a capability check carry one, reflect assignability is used.
	GoType reflect.Type
}

// Validate performs the structural checks a Source must pass before a
// descriptor can be interned.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	if d.Kind == Capability && d.Extends != "" {
		return fmt.Errorf("capability %s cannot extend class %s", d.Name, d.Extends)
	}
	if d.Extends == d.Name {
		return fmt.Errorf("type %s extends itself", d.Name)
	}
	return nil
}
