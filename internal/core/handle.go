package core

import "weak"

// handle is the object every Derived/Effect activation takes a weak
// reference to. It never moves once allocated, so pointer identity
// doubles as the "is this still the same activation" test the
// invalidation protocol needs.
//
// owner is a strong back-reference: while the node holding this handle
// is reachable, the handle is reachable (the node keeps a strong
// pointer to its own handle), so weak.Pointer.Value succeeds; once the
// node is collected the handle goes with it and every weak reference
// to it starts returning nil.
type handle struct {
	owner any // *State, *Derived, or *Effect; narrowed via type assertion
}

// dependency is implemented by anything that can sit on the read side
// of an edge: State and Derived. Effect never appears as a dependency —
// nothing reads an Effect's value.
type dependency interface {
	// permanent returns the node's identity handle (WP), allocating it
	// on first use. It never changes for the lifetime of the node.
	permanent() weak.Pointer[handle]

	// readFor evaluates (if needed) and returns the current value,
	// registering ctx's active derivation as a dependent as governed by
	// ctx's tracking mode.
	readFor(ctx *Context) (any, error)
}

// target is implemented by anything invalidate() can be called on:
// Derived and Effect. currentWeak returns the node's present activity
// handle (the zero Pointer if the node has no live activation), used to
// discriminate a stale dependents-set entry from a live one.
type target interface {
	currentWeak() weak.Pointer[handle]
}

// identity lazily allocates a node's permanent weak handle.
type identity struct {
	h  *handle
	wp weak.Pointer[handle]
}

func (id *identity) get(owner any) weak.Pointer[handle] {
	if id.h == nil {
		id.h = &handle{owner: owner}
		id.wp = weak.Make(id.h)
	}
	return id.wp
}
