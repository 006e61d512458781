// Package typesys is the static type system the resolver checks candidates
// against. Types are described by Descriptors (name, parent, capabilities,
// abstractness, factory) supplied by one or more Sources, and a Universe
// turns names into interned *Type handles so identity comparison is valid.
package typesys
