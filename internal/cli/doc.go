// Package cli defines the Cobra command tree for the typelocator CLI. Each
// file in this package registers one top-level command (find, list, export,
// etc.) with the root command. Command implementations delegate to internal
// packages for discovery and only handle flags and output formatting.
package cli
