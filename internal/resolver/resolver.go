package resolver

import (
	"sort"
	"strings"
	"sync"

	"github.com/agentx-labs/typelocator/internal/index"
	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/agentx-labs/typelocator/internal/pool"
	"github.com/agentx-labs/typelocator/internal/traversal"
	"github.com/agentx-labs/typelocator/internal/typesys"
	"github.com/agentx-labs/typelocator/internal/units"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Pool shares resolvers by traversal strategy.
type Pool = pool.Keyed[*Resolver]

// result is one cached (contract, namespace) resolution. names[i] always
// names types[i].
type result struct {
	names []string
	types []*typesys.Type
}

func (res *result) without(i int) *result {
	return &result{
		names: append(append([]string(nil), res.names[:i]...), res.names[i+1:]...),
		types: append(append([]*typesys.Type(nil), res.types[:i]...), res.types[i+1:]...),
	}
}

type pair struct{ a, b string }

// Resolver is safe for concurrent use.
type Resolver struct {
	strategy string
	idx      *index.Index
	universe *typesys.Universe

	onlyDefaultConstructor bool
	onlySerializable       bool
	sources                []typesys.Source
	env                    typesys.Environment
	suffix                 string
	log                    zerolog.Logger

	mu        sync.Mutex
	cache     map[pair]*result
	blacklist map[string]struct{}
	subtypes  map[pair]bool
	caps      map[pair]bool

	flight singleflight.Group
}

// New runs t once into a fresh index and returns a resolver over it.
func New(t traversal.Traversal, opts ...Option) *Resolver {
	r := &Resolver{
		strategy:  t.Strategy(),
		log:       logging.For("resolver"),
		cache:     make(map[pair]*result),
		blacklist: make(map[string]struct{}),
		subtypes:  make(map[pair]bool),
		caps:      make(map[pair]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.suffix == "" {
		if s, ok := t.(interface{ Suffix() string }); ok {
			r.suffix = s.Suffix()
		}
	}

	r.log.Debug().Str("strategy", r.strategy).Msg("building type index")
	r.idx = index.Build(t)
	r.log.Debug().Int("types", r.idx.Len()).Msg("type index built")

	sources := append(append([]typesys.Source(nil), r.sources...), units.NewSource(r.idx, r.suffix))
	r.universe = typesys.NewUniverse(r.env, sources...)
	return r
}

// Shared returns the resolver for t's strategy from p, building it with opts
// on first use.
func Shared(p *Pool, t traversal.Traversal, opts ...Option) *Resolver {
	r, _ := p.Get(t.Strategy(), func() (*Resolver, error) {
		return New(t, opts...), nil
	})
	return r
}

// Strategy returns the traversal strategy the index was built with.
func (r *Resolver) Strategy() string { return r.strategy }

// Index returns the underlying index.
func (r *Resolver) Index() *index.Index { return r.idx }

// Universe returns the universe candidates are loaded from.
func (r *Resolver) Universe() *typesys.Universe { return r.universe }

// Namespaces returns every discovered namespace, sorted.
func (r *Resolver) Namespaces() []string { return r.idx.Namespaces() }

// OriginsOf returns the origins name was discovered in, sorted.
func (r *Resolver) OriginsOf(name string) []string { return r.idx.OriginsOf(name) }

// Blacklist excludes name from every later resolution of this resolver,
// including those already cached.
func (r *Resolver) Blacklist(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blacklist[name]; ok {
		return
	}
	r.blacklist[name] = struct{}{}
	for key, res := range r.cache {
		if i := sort.SearchStrings(res.names, name); i < len(res.names) && res.names[i] == name {
			r.cache[key] = res.without(i)
		}
	}
}

// IsBlacklisted reports whether name has been blacklisted.
func (r *Resolver) IsBlacklisted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blacklist[name]
	return ok
}

// ResolveNamesInNamespace returns the sorted names in namespace matching
// contract.
func (r *Resolver) ResolveNamesInNamespace(contract, namespace string) []string {
	return append([]string(nil), r.resolveNamespace(contract, namespace).names...)
}

// ResolveTypesInNamespace returns the sorted types in namespace matching
// contract.
func (r *Resolver) ResolveTypesInNamespace(contract, namespace string) []*typesys.Type {
	return append([]*typesys.Type(nil), r.resolveNamespace(contract, namespace).types...)
}

// ResolveNames returns the sorted union of matches across namespaces.
func (r *Resolver) ResolveNames(contract string, namespaces []string) []string {
	names, _ := r.Resolve(contract, namespaces)
	return names
}

// ResolveTypes returns the sorted union of matches across namespaces.
func (r *Resolver) ResolveTypes(contract string, namespaces []string) []*typesys.Type {
	_, types := r.Resolve(contract, namespaces)
	return types
}

// Resolve returns both views of the union of matches across namespaces.
// names[i] is types[i].Name().
func (r *Resolver) Resolve(contract string, namespaces []string) ([]string, []*typesys.Type) {
	byName := make(map[string]*typesys.Type)
	for _, ns := range namespaces {
		res := r.resolveNamespace(contract, ns)
		for i, name := range res.names {
			byName[name] = res.types[i]
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	types := make([]*typesys.Type, len(names))
	for i, name := range names {
		types[i] = byName[name]
	}
	return names, types
}

func (r *Resolver) resolveNamespace(contract, namespace string) *result {
	key := pair{contract, namespace}
	if res := r.cached(key); res != nil {
		return res
	}

	v, err, _ := r.flight.Do(contract+"\x00"+namespace, func() (any, error) {
		if res := r.cached(key); res != nil {
			return res, nil
		}
		res, err := r.filter(contract, namespace)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		// Names blacklisted while the filter ran must not be cached.
		for i := len(res.names) - 1; i >= 0; i-- {
			if _, ok := r.blacklist[res.names[i]]; ok {
				res = res.without(i)
			}
		}
		r.cache[key] = res
		return res, nil
	})
	if err != nil {
		// Only invariant violations reach here.
		panic(err)
	}
	return v.(*result)
}

func (r *Resolver) cached(key pair) *result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[key]
}

// filter runs the candidate filter chain for one namespace.
func (r *Resolver) filter(contract, namespace string) (*result, error) {
	log := r.log.With().Str("contract", contract).Str("namespace", namespace).Logger()

	ct, err := r.universe.Load(contract)
	if err != nil {
		log.Error().Err(err).Msg("cannot load contract")
		return &result{}, nil
	}
	serializable, _ := r.universe.Load(typesys.Serializable)

	res := &result{}
	for _, name := range r.idx.Names(namespace, true) {
		if index.IsAnonymous(name) {
			log.Trace().Str("type", name).Msg("skipping anonymous type")
			continue
		}
		if strings.Contains(name, "$") {
			log.Trace().Str("type", name).Msg("skipping nested type")
			continue
		}
		if r.IsBlacklisted(name) {
			continue
		}

		t, err := r.universe.Load(name)
		if err != nil {
			if typesys.IsEnvironmentRestriction(err) {
				log.Warn().Err(err).Str("type", name).Msg("skipping type unavailable in this environment")
			} else {
				log.Error().Err(err).Str("type", name).Msg("cannot introspect type, blacklisting")
				r.Blacklist(name)
			}
			continue
		}

		if t.IsAbstract() {
			r.idx.SetAbstract(name, true)
			continue
		}
		if r.onlyDefaultConstructor && !t.HasDefaultConstructor() {
			log.Debug().Str("type", name).Msg("no default constructor, evicting")
			r.idx.Remove(name)
			continue
		}
		if r.onlySerializable && !r.HasCapability(serializable, t) {
			log.Debug().Str("type", name).Msg("not serializable, evicting")
			r.idx.Remove(name)
			continue
		}

		if ct.IsCapability() {
			if !r.HasCapability(ct, t) {
				continue
			}
		} else if t == ct || !r.IsSubtype(ct, t) {
			continue
		}

		res.names = append(res.names, name)
		res.types = append(res.types, t)
	}

	sort.Sort(byName(*res))
	if err := align(contract, namespace, res.names, res.types); err != nil {
		return nil, err
	}
	log.Debug().Int("matches", len(res.names)).Msg("resolved")
	return res, nil
}

// align checks that names and types describe the same list.
func align(contract, namespace string, names []string, types []*typesys.Type) error {
	if len(names) != len(types) {
		return &InvariantError{Contract: contract, Namespace: namespace, Names: len(names), Types: len(types)}
	}
	for i, name := range names {
		if types[i] == nil || types[i].Name() != name {
			return &InvariantError{
				Contract: contract, Namespace: namespace, Names: len(names), Types: len(types),
				Detail: "lists out of order at " + name,
			}
		}
	}
	return nil
}

// byName sorts both lists of a result by name.
type byName result

func (b byName) Len() int           { return len(b.names) }
func (b byName) Less(i, j int) bool { return b.names[i] < b.names[j] }
func (b byName) Swap(i, j int) {
	b.names[i], b.names[j] = b.names[j], b.names[i]
	if i < len(b.types) && j < len(b.types) {
		b.types[i], b.types[j] = b.types[j], b.types[i]
	}
}
