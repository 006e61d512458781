package resolver

import "github.com/agentx-labs/typelocator/internal/typesys"

// IsSubtype reports whether candidate is super or descends from it. Answers
// are memoised for the resolver's lifetime.
func (r *Resolver) IsSubtype(super, candidate *typesys.Type) bool {
	if super == nil || candidate == nil {
		return false
	}
	key := pair{super.Name(), candidate.Name()}
	r.mu.Lock()
	v, ok := r.subtypes[key]
	r.mu.Unlock()
	if ok {
		return v
	}

	v = candidate.Descends(super)
	r.mu.Lock()
	r.subtypes[key] = v
	r.mu.Unlock()
	return v
}

// HasCapability reports whether candidate satisfies capability, directly or
// through its parents. Answers are memoised for the resolver's lifetime.
func (r *Resolver) HasCapability(capability, candidate *typesys.Type) bool {
	if capability == nil || candidate == nil {
		return false
	}
	key := pair{capability.Name(), candidate.Name()}
	r.mu.Lock()
	v, ok := r.caps[key]
	r.mu.Unlock()
	if ok {
		return v
	}

	v = candidate.Satisfies(capability)
	r.mu.Lock()
	r.caps[key] = v
	r.mu.Unlock()
	return v
}

// Matches reports whether candidate is a subtype of contract or satisfies it.
func (r *Resolver) Matches(contract, candidate *typesys.Type) bool {
	return r.IsSubtype(contract, candidate) || r.HasCapability(contract, candidate)
}
