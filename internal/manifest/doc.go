// Package manifest parses and validates the two YAML documents the locator
// reads from the search path: type-unit descriptors (<Name>.type.yaml) and
// archive manifests (manifest.yaml at the root of a zip archive). Both are
// checked against JSON schemas embedded in the binary.
package manifest
