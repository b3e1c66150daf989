package rubedo

import "github.com/kernel32dev/rubedo/internal/core"

// Derived is a memoized computation over other reactive nodes.
type Derived[T any] struct {
	d *core.Derived
}

// NewDerived creates a Derived from a pure function of other reactive
// nodes. fn must not have side effects visible outside the graph; it
// may read any number of State/Derived values and may itself write a
// State: writes inside a derivator are legal.
func NewDerived[T any](fn func() T) *Derived[T] {
	var core_ *core.Derived
	core_ = core.NewDerived(func() (any, error) {
		return fn(), nil
	})
	return &Derived[T]{d: core_}
}

// Read evaluates (if needed) and returns the memoized value,
// registering the caller's dependency if one is active.
func (d *Derived[T]) Read() T {
	v, err := d.d.Read(currentContext())
	panicOnError(err)
	return as[T](v)
}

// Now reads the value with tracking ignored: it never adds a
// dependency edge ("node.now()").
func (d *Derived[T]) Now() T {
	v, err := d.d.Now(currentContext())
	panicOnError(err)
	return as[T](v)
}

// Flatten collapses a Derived that produces another Derived into a
// single Derived of the inner value, chasing through nested layers the
// way the core engine's evaluation loop does internally for untyped
// values (Step D: chase through until the result is not a Derived).
// Go's static generics can't express "T or Derived[T]" polymorphically
// the way the source language can, so nested-derived unwrapping is this
// explicit combinator rather than an implicit property of every Read.
func Flatten[T any](d *Derived[*Derived[T]]) *Derived[T] {
	return NewDerived(func() T { return d.Read().Read() })
}

// Untracked runs fn with tracking ignored and returns its result,
// without adding any dependency edges ("Derived.now(fn)").
func Untracked[T any](fn func() T) T {
	ctx := currentContext()
	var result T
	var err error
	ctx.RunIgnored(func() {
		defer func() {
			if r := recover(); r != nil {
				err = asPanicError(r)
			}
		}()
		result = fn()
	})
	panicOnError(err)
	return result
}

// Constant returns a Derived wrapping v ("Derived.from(v)" applied to a
// plain value). Its derivator reads nothing, so the first Read
// const-folds it.
func Constant[T any](v T) *Derived[T] {
	return NewDerived(func() T { return v })
}

// From returns v unchanged if it is already a *Derived[T], otherwise
// wraps it in a constant Derived ("Derived.from(v)": "if already a
// Derived, returns it; otherwise returns a constant Derived"). v is
// typed any rather than T since the whole point is to accept either
// shape; a generic parameter can't express "T or *Derived[T]" directly.
func From[T any](v any) *Derived[T] {
	if d, ok := v.(*Derived[T]); ok {
		return d
	}
	return Constant(v.(T))
}

// anyReader is satisfied by every instantiation of Derived[T] via
// readAny below. Use needs this rather than matching Derived[T].Read
// directly: Go's method sets require an exact signature match, and
// Read's return type varies with T, so a plain `interface{ Read() any }`
// assertion would never match any concrete instantiation.
type anyReader interface {
	readAny() any
}

func (d *Derived[T]) readAny() any { return d.Read() }

// Use reads through any number of nested Derived values, unwrapping
// until it reaches a plain value ("Derived.use(v)").
func Use[T any](v any) T {
	for {
		if nd, ok := v.(anyReader); ok {
			v = nd.readAny()
			continue
		}
		break
	}
	return as[T](v)
}

// Derive maps a Derived's value through a pure function, producing a
// new Derived ("fmap"/"derive").
func Derive[T, U any](d *Derived[T], fn func(T) U) *Derived[U] {
	return NewDerived(func() U { return fn(d.Read()) })
}

// Prop projects a struct field (or any selector) out of a Derived,
// re-deriving whenever the source changes ("prop").
func Prop[T, F any](d *Derived[T], sel func(T) F) *Derived[F] {
	return Derive(d, sel)
}

// Choose selects between two Deriveds based on a boolean Derived
// ("choose").
func Choose[T any](cond *Derived[bool], whenTrue, whenFalse *Derived[T]) *Derived[T] {
	return NewDerived(func() T {
		if cond.Read() {
			return whenTrue.Read()
		}
		return whenFalse.Read()
	})
}

// And is boolean conjunction over Deriveds, short-circuiting like the
// native operator ("and").
func And(a, b *Derived[bool]) *Derived[bool] {
	return NewDerived(func() bool { return a.Read() && b.Read() })
}

// Or is boolean disjunction over Deriveds, short-circuiting like the
// native operator ("or").
func Or(a, b *Derived[bool]) *Derived[bool] {
	return NewDerived(func() bool { return a.Read() || b.Read() })
}

// Coalesce returns a's value unless it is the zero value of T, in which
// case it falls back to b's ("coalesce").
func Coalesce[T comparable](a, b *Derived[T]) *Derived[T] {
	return NewDerived(func() T {
		var zero T
		if v := a.Read(); v != zero {
			return v
		}
		return b.Read()
	})
}
