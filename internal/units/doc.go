// Package units loads type descriptors from the unit files found by a
// traversal. A name discovered in several origins is described by the unit
// with the highest semantic version.
package units
