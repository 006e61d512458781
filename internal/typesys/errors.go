package typesys

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned by a Source that has no descriptor for a name.
	ErrUnknownType = errors.New("unknown type")
	// ErrCycle is returned when a class or capability inherits from itself.
	ErrCycle = errors.New("inheritance cycle")
	// ErrNotCapability is returned when a capability position names a class,
	// or a class position names a capability.
	ErrNotCapability = errors.New("kind mismatch")
)

// EnvironmentError reports that a type cannot be introspected in the current
// host environment. It is a restriction, not a defect of the type.
type EnvironmentError struct {
	Type    string
	Feature string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("type %s requires unavailable host feature %q", e.Type, e.Feature)
}

// IntrospectionError wraps any other failure to load a type.
type IntrospectionError struct {
	Type string
	Err  error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspecting %s: %v", e.Type, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

// IsEnvironmentRestriction reports whether err, or anything it wraps, is an
// *EnvironmentError.
func IsEnvironmentRestriction(err error) bool {
	var envErr *EnvironmentError
	return errors.As(err, &envErr)
}
