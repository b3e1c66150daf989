package rubedo

import "github.com/kernel32dev/rubedo/internal/core"

// State is a writable reactive cell.
type State[T any] struct {
	s *core.State
}

// NewState creates a writable signal with the given initial value.
func NewState[T any](initial T) *State[T] {
	return &State[T]{s: core.NewState(initial)}
}

// Read returns the current value, registering the caller's dependency
// if one is active.
func (s *State[T]) Read() T {
	v, err := s.s.Read(currentContext())
	panicOnError(err)
	return as[T](v)
}

// Write overwrites the value (a no-op if the new value is equal to the
// current one) and invalidates every live dependent.
func (s *State[T]) Write(v T) {
	s.s.Set(currentContext(), v)
}

// Mut is equivalent to Write(fn(Now())).
func (s *State[T]) Mut(fn func(T) T) {
	s.s.Mut(currentContext(), func(v any) any { return fn(as[T](v)) })
}

// Now returns the current value without registering a dependency.
func (s *State[T]) Now() T {
	return as[T](s.s.Now())
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
