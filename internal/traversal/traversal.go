package traversal

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultNamespace is the namespace of names without a dot.
const DefaultNamespace = "DEFAULT"

// DefaultSuffix marks a file or archive entry as a type unit.
const DefaultSuffix = ".type.yaml"

// Strategy keys reported by the built-in traversals.
const (
	StrategySearchPath = "searchpath"
	StrategyFixed      = "fixed"
	StrategyProperties = "properties"
)

// Listener receives every discovered type unit. origin is the directory root
// or archive the name was found in, or "" for synthetic sources.
type Listener interface {
	Visit(name, origin string)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(name, origin string)

// Visit implements Listener.
func (f ListenerFunc) Visit(name, origin string) { f(name, origin) }

// Traversal drives one scan and reports every unit to the listener.
type Traversal interface {
	// Strategy identifies the traversal scheme. Shared resolver and registry
	// instances are keyed by it.
	Strategy() string
	Traverse(l Listener)
}

// Namespace returns the prefix of name before its last dot, or
// DefaultNamespace.
func Namespace(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return DefaultNamespace
}

// CleanUp turns a unit path into a type name: it strips suffix, converts
// "/" and "\" into ".", and normalises the result to NFC.
func CleanUp(path, suffix string) string {
	name := path
	if suffix != "" {
		name = strings.TrimSuffix(name, suffix)
	}
	name = strings.NewReplacer("/", ".", "\\", ".").Replace(name)
	name = strings.TrimLeft(name, ".")
	return norm.NFC.String(name)
}
