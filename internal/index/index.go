package index

import (
	"regexp"
	"sort"
	"sync"

	"github.com/agentx-labs/typelocator/internal/traversal"
)

// anonymous matches compiler-style synthesized names such as pkg.Outer$1.
var anonymous = regexp.MustCompile(`^(?:.+\.)?[^.$]+(?:\$[^.$]+)*\$[0-9]+$`)

type set map[string]struct{}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Index is safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]set
	origins    map[string]set
	abstract   set
}

// New returns an empty index.
func New() *Index {
	return &Index{
		namespaces: make(map[string]set),
		origins:    make(map[string]set),
		abstract:   make(set),
	}
}

// Build runs t once into a new index.
func Build(t traversal.Traversal) *Index {
	idx := New()
	t.Traverse(idx)
	return idx
}

// Visit implements traversal.Listener.
func (x *Index) Visit(name, origin string) {
	if name == "" {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	ns := traversal.Namespace(name)
	if x.namespaces[ns] == nil {
		x.namespaces[ns] = make(set)
	}
	x.namespaces[ns][name] = struct{}{}

	if origin == "" {
		return
	}
	if x.origins[origin] == nil {
		x.origins[origin] = make(set)
	}
	x.origins[origin][name] = struct{}{}
}

// Names returns the sorted names in namespace, optionally without those
// flagged abstract.
func (x *Index) Names(namespace string, excludeAbstract bool) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.filter(x.namespaces[namespace], excludeAbstract)
}

// NamesIn returns the sorted names discovered in origin, optionally without
// those flagged abstract.
func (x *Index) NamesIn(origin string, excludeAbstract bool) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.filter(x.origins[origin], excludeAbstract)
}

func (x *Index) filter(s set, excludeAbstract bool) []string {
	if !excludeAbstract {
		return s.sorted()
	}
	out := make([]string, 0, len(s))
	for name := range s {
		if _, ok := x.abstract[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Remove purges name from its namespace and from every origin. Empty
// buckets are dropped. It reports whether anything changed.
func (x *Index) Remove(name string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	changed := false
	ns := traversal.Namespace(name)
	if bucket, ok := x.namespaces[ns]; ok {
		if _, ok := bucket[name]; ok {
			delete(bucket, name)
			changed = true
			if len(bucket) == 0 {
				delete(x.namespaces, ns)
			}
		}
	}
	for origin, bucket := range x.origins {
		if _, ok := bucket[name]; !ok {
			continue
		}
		delete(bucket, name)
		changed = true
		if len(bucket) == 0 {
			delete(x.origins, origin)
		}
	}
	return changed
}

// SetAbstract records whether name is abstract.
func (x *Index) SetAbstract(name string, abstract bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if abstract {
		x.abstract[name] = struct{}{}
	} else {
		delete(x.abstract, name)
	}
}

// IsAbstract reports the recorded flag; names never annotated are not
// abstract.
func (x *Index) IsAbstract(name string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.abstract[name]
	return ok
}

// IsAnonymous reports whether name looks like a synthesized nested unit,
// <namespace>.<prefix>$<digits>.
func IsAnonymous(name string) bool {
	return anonymous.MatchString(name)
}

// Namespaces returns every namespace with at least one name, sorted.
func (x *Index) Namespaces() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, 0, len(x.namespaces))
	for ns := range x.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Origins returns every origin with at least one name, sorted.
func (x *Index) Origins() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, 0, len(x.origins))
	for o := range x.origins {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// OriginsOf returns the sorted origins name was discovered in. More than one
// entry means conflicting provenance.
func (x *Index) OriginsOf(name string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []string
	for o, bucket := range x.origins {
		if _, ok := bucket[name]; ok {
			out = append(out, o)
		}
	}
	sort.Strings(out)
	return out
}

// Contains reports whether name is indexed.
func (x *Index) Contains(name string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.namespaces[traversal.Namespace(name)][name]
	return ok
}

// Len returns the number of distinct names.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, bucket := range x.namespaces {
		n += len(bucket)
	}
	return n
}

// IsEmpty reports whether nothing has been indexed.
func (x *Index) IsEmpty() bool { return x.Len() == 0 }
