package typesys

import "reflect"

// Descends reports whether ancestor is t or one of t's parent classes.
func (t *Type) Descends(ancestor *Type) bool {
	for cur := t; cur != nil; cur = cur.super {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Satisfies reports whether t, one of its parents, or one of their
// capabilities (transitively) is capability c. When both t and c are bound
// to Go types and c's Go type is an interface, the Go method sets decide.
func (t *Type) Satisfies(c *Type) bool {
	if c == nil || !c.IsCapability() {
		return false
	}
	if gt, gc := t.GoType(), c.GoType(); gt != nil && gc != nil && gc.Kind() == reflect.Interface {
		return gt.Implements(gc) || (gt.Kind() != reflect.Pointer && reflect.PointerTo(gt).Implements(gc))
	}
	seen := make(map[*Type]bool)
	for cur := t; cur != nil; cur = cur.super {
		if cur.satisfies(c, seen) {
			return true
		}
	}
	return false
}

func (t *Type) satisfies(c *Type, seen map[*Type]bool) bool {
	if t == c {
		return true
	}
	if seen[t] {
		return false
	}
	seen[t] = true
	for _, next := range t.capabilities {
		if next.satisfies(c, seen) {
			return true
		}
	}
	return false
}

// Ancestors returns t's parent chain, nearest first, ending with Object.
func (t *Type) Ancestors() []*Type {
	var out []*Type
	for cur := t.super; cur != nil; cur = cur.super {
		out = append(out, cur)
	}
	return out
}
