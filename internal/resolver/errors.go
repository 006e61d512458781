package resolver

import "fmt"

// InvariantError reports that the filtered name and type lists of one
// resolution disagree. It is raised with panic: the filter chain is broken
// and no partial result can be trusted.
type InvariantError struct {
	Contract  string
	Namespace string
	Names     int
	Types     int
	Detail    string
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("resolving %s in %s: %d names but %d types", e.Contract, e.Namespace, e.Names, e.Types)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
