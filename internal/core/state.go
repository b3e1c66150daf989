package core

import "weak"

// State is a writable reactive cell.
type State struct {
	id    identity
	value any
	deps  depSet // D: dependents
}

func NewState(initial any) *State {
	return &State{value: initial}
}

func (s *State) permanent() weak.Pointer[handle] {
	return s.id.get(s)
}

// readFor implements dependency.readFor for State: register the caller
// via useDerived(D), then return the current value.
func (s *State) readFor(ctx *Context) (any, error) {
	if err := ctx.useDerived(&s.deps); err != nil {
		return nil, err
	}
	return s.value, nil
}

// Read is the public entry point, bracketed as a top-level call so a
// bare read (no enclosing derivation) still drains any microtasks a
// prior write queued.
func (s *State) Read(ctx *Context) (any, error) {
	ctx.enter()
	defer ctx.leave()
	return s.readFor(ctx)
}

// Now returns the current value without registering a dependency
// ("now()").
func (s *State) Now() any {
	return s.value
}

// Set overwrites the value (no-op if equal under isEqual), then drains
// D and invalidates every live dependent ("set(v)").
func (s *State) Set(ctx *Context, v any) {
	ctx.enter()
	defer ctx.leave()

	if isEqual(s.value, v) {
		return
	}
	s.value = v

	invalidateSet(ctx, &s.deps)
}

// Mut is equivalent to Set(fn(current)) ("mut(fn)").
func (s *State) Mut(ctx *Context, fn func(any) any) {
	s.Set(ctx, fn(s.value))
}
