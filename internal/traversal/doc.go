// Package traversal enumerates type units on a search path and reports each
// one to a Listener as a (type name, origin) pair.
//
// A search path is an ordered list of directories and zip archives. Files
// ending in the unit suffix become type names: the suffix is dropped and
// path separators become dots, so pkgA/ConcreteClassA.type.yaml names
// pkgA.ConcreteClassA. Archives may reference further archives through the
// search-path field of their root manifest.yaml.
//
// FixedList and PropertiesList feed a Listener from a list of names without
// touching the file system, and Cached replays a persisted snapshot of a
// previous SearchPath run.
//
// Traversal never fails: unreadable or corrupt containers are logged and
// skipped.
package traversal
