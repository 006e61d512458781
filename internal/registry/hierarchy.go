package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/agentx-labs/typelocator/internal/pool"
	"github.com/agentx-labs/typelocator/internal/resolver"
	"github.com/agentx-labs/typelocator/internal/traversal"
	"github.com/agentx-labs/typelocator/internal/typesys"
	"github.com/rs/zerolog"
)

// State is the population state of one contract.
type State int

const (
	// Unresolved contracts have no entry yet.
	Unresolved State = iota
	// Resolving contracts are being populated by AddHierarchy.
	Resolving
	// Cached contracts are served from their accumulator.
	Cached
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Cached:
		return "cached"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pool shares registries by traversal strategy.
type Pool = pool.Keyed[*Registry]

// entry accumulates the names and types merged under one contract, in
// first-seen order.
type entry struct {
	names []string
	types []*typesys.Type
	seen  map[string]struct{}
}

func (e *entry) add(name string, t *typesys.Type) bool {
	if _, ok := e.seen[name]; ok {
		return false
	}
	e.seen[name] = struct{}{}
	e.names = append(e.names, name)
	e.types = append(e.types, t)
	return true
}

// Registry turns the contract tables into cached result sets. It is safe
// for concurrent use; population of any contract happens at most once per
// Initialize.
type Registry struct {
	resolver  *resolver.Resolver
	packages  *config.Table
	blacklist *config.Table
	log       zerolog.Logger

	mu        sync.Mutex
	patterns  map[string][]*regexp.Regexp
	states    map[string]State
	entries   map[string]*entry
	managed   map[string]*typesys.Type
	allCached bool
}

// New returns a registry over r. packages maps contracts to namespaces and
// blacklist maps contracts to full-match name patterns; either may be nil.
func New(r *resolver.Resolver, packages, blacklist *config.Table) *Registry {
	if packages == nil {
		packages = config.NewTable()
	}
	if blacklist == nil {
		blacklist = config.NewTable()
	}
	reg := &Registry{
		resolver:  r,
		packages:  packages,
		blacklist: blacklist,
		log:       logging.For("registry"),
		patterns:  make(map[string][]*regexp.Regexp),
	}
	reg.reset()
	return reg
}

// Shared returns the registry for r's strategy from p, building it on first
// use. Later calls return the existing registry and ignore the tables.
func Shared(p *Pool, r *resolver.Resolver, packages, blacklist *config.Table) *Registry {
	reg, _ := p.Get(r.Strategy(), func() (*Registry, error) {
		return New(r, packages, blacklist), nil
	})
	return reg
}

// Resolver returns the underlying resolver.
func (reg *Registry) Resolver() *resolver.Resolver { return reg.resolver }

// Initialize drops every cached contract and the managed sets. Compiled
// blacklist patterns and the resolver's own caches are kept.
func (reg *Registry) Initialize() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.reset()
}

func (reg *Registry) reset() {
	reg.states = make(map[string]State)
	reg.entries = make(map[string]*entry)
	reg.managed = make(map[string]*typesys.Type)
	reg.allCached = false
}

// State returns the population state of contract.
func (reg *Registry) State(contract string) State {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.states[contract]
}

// AddHierarchy resolves contract over namespaces, drops names matching the
// contract's blacklist patterns and merges the rest into the contract's
// entry and the managed sets. It may be called repeatedly for one contract.
func (reg *Registry) AddHierarchy(contract string, namespaces []string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.addHierarchy(contract, namespaces)
}

func (reg *Registry) addHierarchy(contract string, namespaces []string) {
	prev := reg.states[contract]
	reg.states[contract] = Resolving
	defer func() {
		// A failed resolve must not leave the contract stuck in Resolving.
		if p := recover(); p != nil {
			reg.states[contract] = prev
			panic(p)
		}
	}()
	names, types := reg.resolver.Resolve(contract, namespaces)

	patterns := reg.compiled(contract)
	e := reg.entries[contract]
	if e == nil {
		e = &entry{seen: make(map[string]struct{})}
		reg.entries[contract] = e
	}
	added := 0
	for i, name := range names {
		if matchesAny(patterns, name) {
			reg.log.Debug().Str("contract", contract).Str("type", name).Msg("blacklisted by pattern")
			continue
		}
		if e.add(name, types[i]) {
			added++
		}
		reg.managed[name] = types[i]
	}

	reg.states[contract] = Cached
	reg.log.Debug().
		Str("contract", contract).
		Strs("namespaces", namespaces).
		Int("added", added).
		Msg("hierarchy added")
}

// compiled returns the blacklist patterns of contract, compiling them on
// first use. Patterns that do not compile are logged and skipped.
func (reg *Registry) compiled(contract string) []*regexp.Regexp {
	if p, ok := reg.patterns[contract]; ok {
		return p
	}
	var out []*regexp.Regexp
	for _, raw := range reg.blacklist.Get(contract) {
		re, err := regexp.Compile("^(?:" + raw + ")$")
		if err != nil {
			reg.log.Error().Err(err).Str("contract", contract).Str("pattern", raw).Msg("invalid blacklist pattern, skipping")
			continue
		}
		out = append(out, re)
	}
	reg.patterns[contract] = out
	return out
}

func matchesAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// UpdateCaches populates contract from its configured namespaces if it is
// still unresolved. Unconfigured contracts search their own namespace.
func (reg *Registry) UpdateCaches(contract string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateCaches(contract)
}

func (reg *Registry) updateCaches(contract string) {
	if reg.states[contract] != Unresolved {
		return
	}
	reg.addHierarchy(contract, reg.namespaces(contract))
}

// UpdateAllCaches populates every configured contract once.
func (reg *Registry) UpdateAllCaches() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateAll()
}

func (reg *Registry) updateAll() {
	if reg.allCached {
		return
	}
	for _, contract := range reg.packages.Keys() {
		reg.updateCaches(contract)
	}
	reg.allCached = true
}

// Namespaces returns the namespaces searched for contract.
func (reg *Registry) Namespaces(contract string) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.namespaces(contract)
}

func (reg *Registry) namespaces(contract string) []string {
	if reg.packages.Has(contract) {
		return reg.packages.Get(contract)
	}
	return []string{traversal.Namespace(contract)}
}

// Names returns the names registered under contract, populating it first.
func (reg *Registry) Names(contract string) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateCaches(contract)
	if e := reg.entries[contract]; e != nil {
		return append([]string(nil), e.names...)
	}
	return nil
}

// Types returns the types registered under contract, populating it first.
func (reg *Registry) Types(contract string) []*typesys.Type {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateCaches(contract)
	if e := reg.entries[contract]; e != nil {
		return append([]*typesys.Type(nil), e.types...)
	}
	return nil
}

// Contracts returns every configured or added contract, sorted.
func (reg *Registry) Contracts() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.contracts()
}

func (reg *Registry) contracts() []string {
	set := make(map[string]struct{})
	for _, c := range reg.packages.Keys() {
		set[c] = struct{}{}
	}
	for c := range reg.entries {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ContractsFor returns the cached contracts name is registered under,
// sorted.
func (reg *Registry) ContractsFor(name string) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	var out []string
	for contract, e := range reg.entries {
		if _, ok := e.seen[name]; ok {
			out = append(out, contract)
		}
	}
	sort.Strings(out)
	return out
}

// IsManaged reports whether name is registered under any configured
// contract. It populates every contract first.
func (reg *Registry) IsManaged(name string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateAll()
	_, ok := reg.managed[name]
	return ok
}

// ManagedNames returns every registered name, sorted. It populates every
// contract first.
func (reg *Registry) ManagedNames() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateAll()
	return reg.managedNames()
}

func (reg *Registry) managedNames() []string {
	out := make([]string, 0, len(reg.managed))
	for name := range reg.managed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ManagedTypes returns every registered type, sorted by name. It populates
// every contract first.
func (reg *Registry) ManagedTypes() []*typesys.Type {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.updateAll()
	names := reg.managedNames()
	out := make([]*typesys.Type, len(names))
	for i, name := range names {
		out[i] = reg.managed[name]
	}
	return out
}

// ExportNames returns contract to names for every cached contract, in the
// same table format the namespaces are configured in.
func (reg *Registry) ExportNames() *config.Table {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	t := config.NewTable()
	for _, contract := range reg.contracts() {
		if e, ok := reg.entries[contract]; ok {
			t.Set(contract, e.names)
		}
	}
	return t
}

// ExportNamespaces returns contract to namespaces for every configured or
// cached contract.
func (reg *Registry) ExportNamespaces() *config.Table {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	t := config.NewTable()
	for _, contract := range reg.contracts() {
		t.Set(contract, reg.namespaces(contract))
	}
	return t
}

// String lists every cached contract followed by its comma-joined names.
func (reg *Registry) String() string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	var b strings.Builder
	for _, contract := range reg.contracts() {
		e, ok := reg.entries[contract]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\n\t%s\n", contract, strings.Join(e.names, ","))
	}
	return b.String()
}
