// Package index holds the name indices built from one traversal: namespace
// to names, origin to names, and the abstract flags annotated by the
// resolver. An *Index is a traversal.Listener.
package index
