// Package pool holds shared instances keyed by traversal strategy, so that
// one process can run independent resolvers and registries side by side.
package pool
