// Package resolver answers "which discovered types in these namespaces
// derive from, or satisfy, this contract?".
//
// A Resolver owns one index, built eagerly from its traversal, and a
// typesys.Universe that loads candidates from the static registry and from
// the discovered unit files. Candidates go through a filter chain:
//
//   - names containing '$' (nested or synthesized units) are dropped;
//   - blacklisted names are dropped;
//   - candidates that cannot be loaded are dropped, and blacklisted unless
//     the failure is an environment restriction;
//   - abstract candidates are dropped and flagged in the index;
//   - with OnlyDefaultConstructor or OnlySerializable, candidates lacking
//     the property are dropped and evicted from the index;
//   - the rest must satisfy a capability contract, or be a proper subtype
//     of a class contract.
//
// Results are cached per (contract, namespace) for the resolver's lifetime
// and are returned sorted by name. Subtype and capability answers are
// memoised. Concurrent first population of one key runs the filter chain
// once.
package resolver
