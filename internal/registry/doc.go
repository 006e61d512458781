// Package registry is the configuration-driven façade over the resolver.
// It holds the contract tables (contract to namespaces, contract to
// blacklist patterns), populates each contract's result set on first
// access, merges every result into the managed sets and answers reverse
// lookups and exports.
//
// Each contract moves from Unresolved through Resolving to Cached and stays
// cached until Initialize is called.
package registry
