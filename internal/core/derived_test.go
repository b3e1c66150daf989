package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// scenario 1: branch memoization.
func TestDerivedBranchMemoization(t *testing.T) {
	ctx := NewContext()
	s1 := NewState(true)
	s2 := NewState("yes")
	s3 := NewState("no")

	calls := 0
	d := NewDerived(func() (any, error) {
		calls++
		v1, _ := s1.readFor(ctx)
		if v1.(bool) {
			v2, _ := s2.readFor(ctx)
			return v2, nil
		}
		v3, _ := s3.readFor(ctx)
		return v3, nil
	})

	v, _ := d.Read(ctx)
	assert.Equal(t, "yes", v)
	assert.Equal(t, 1, calls)

	s2.Set(ctx, "YES!")
	v, _ = d.Read(ctx)
	assert.Equal(t, "YES!", v)
	assert.Equal(t, 2, calls)

	s3.Set(ctx, "NO!") // d never read s3 on this branch: must not recompute
	v, _ = d.Read(ctx)
	assert.Equal(t, "YES!", v)
	assert.Equal(t, 2, calls)

	s1.Set(ctx, false)
	v, _ = d.Read(ctx)
	assert.Equal(t, "NO!", v)
	assert.Equal(t, 3, calls)

	s2.Set(ctx, "YES?") // now on the false branch: s2 writes are irrelevant
	v, _ = d.Read(ctx)
	assert.Equal(t, "NO!", v)
	assert.Equal(t, 3, calls)

	s3.Set(ctx, "NO?")
	v, _ = d.Read(ctx)
	assert.Equal(t, "NO?", v)
	assert.Equal(t, 4, calls)
}

// scenario 2: possibly-invalid-but-equal.
func TestDerivedPossiblyInvalidButEqual(t *testing.T) {
	ctx := NewContext()
	s := NewState(0)

	d2Calls := 0
	d2 := NewDerived(func() (any, error) {
		d2Calls++
		v, _ := s.readFor(ctx)
		return v.(int) >= 0, nil
	})

	d3Calls := 0
	d3 := NewDerived(func() (any, error) {
		d3Calls++
		v, _ := d2.readFor(ctx)
		if v.(bool) {
			return "yes", nil
		}
		return "no", nil
	})

	v, _ := d3.Read(ctx)
	assert.Equal(t, "yes", v)
	assert.Equal(t, 1, d2Calls)
	assert.Equal(t, 1, d3Calls)

	s.Set(ctx, 2)
	v, _ = d3.Read(ctx)
	assert.Equal(t, "yes", v)
	assert.Equal(t, 2, d2Calls) // d2 re-evaluates (possibly invalid)
	assert.Equal(t, 1, d3Calls) // but d3 does not, since d2's value didn't change

	s.Set(ctx, 3)
	v, _ = d3.Read(ctx)
	assert.Equal(t, "yes", v)
	assert.Equal(t, 3, d2Calls)
	assert.Equal(t, 1, d3Calls)
}

// scenario 3: self-invalidating derivator.
func TestDerivedSelfInvalidating(t *testing.T) {
	ctx := NewContext()
	s := NewState(0)

	d := NewDerived(func() (any, error) {
		v, _ := s.readFor(ctx)
		x := v.(int)
		if x < 10 {
			s.Set(ctx, x+1)
		}
		return x, nil
	})

	v, err := d.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestDerivedSelfInvalidationExhaustsRetryLimit(t *testing.T) {
	ctx := NewContext()
	s := NewState(0)

	d := NewDerived(func() (any, error) {
		v, _ := s.readFor(ctx)
		x := v.(int)
		s.Set(ctx, x+1) // always changes: never converges
		return x, nil
	})

	_, err := d.Read(ctx)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, DerivationRepeatLimit, e.Kind)
}

// scenario 4: nested derivation unwrap.
func TestDerivedNestedUnwrap(t *testing.T) {
	ctx := NewContext()

	d0 := NewDerived(func() (any, error) { return 10, nil })
	d1 := NewDerived(func() (any, error) { return d0, nil })
	d2 := NewDerived(func() (any, error) {
		return NewDerived(func() (any, error) {
			return NewDerived(func() (any, error) { return d1, nil }), nil
		}), nil
	})
	d3 := NewDerived(func() (any, error) {
		return NewDerived(func() (any, error) { return d2, nil }), nil
	})

	v, err := d3.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)
}

// A chase through a nested Derived must still register the outer node
// as a dependent of whatever live reactive leaf the chase bottoms out
// on, and must count toward used so the outer node isn't wrongly
// const-folded: outer's own fn never calls readFor/Read itself, it just
// returns inner, so any tracking that happens outside of d's own active
// scope would be invisible to outer.
func TestDerivedNestedUnwrapTracksThroughToLiveLeaf(t *testing.T) {
	ctx := NewContext()
	s := NewState(1)

	inner := NewDerived(func() (any, error) { return s.readFor(ctx) })
	outerCalls := 0
	outer := NewDerived(func() (any, error) {
		outerCalls++
		return inner, nil
	})

	v, err := outer.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, outerCalls)

	s.Set(ctx, 2)
	v, err = outer.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestDerivedCircularDependency(t *testing.T) {
	ctx := NewContext()

	var d *Derived
	d = NewDerived(func() (any, error) {
		return d.readFor(ctx)
	})

	_, err := d.Read(ctx)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, CircularDependency, e.Kind)
}

func TestDerivedConstFolding(t *testing.T) {
	ctx := NewContext()
	calls := 0
	d := NewDerived(func() (any, error) {
		calls++
		return 42, nil
	})

	v, _ := d.Read(ctx)
	assert.Equal(t, 42, v)
	v, _ = d.Read(ctx)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestDerivedExceptionRestoresPriorCache(t *testing.T) {
	ctx := NewContext()
	s := NewState(0)
	fail := false

	d := NewDerived(func() (any, error) {
		v, _ := s.readFor(ctx)
		if fail {
			panic("boom")
		}
		return v, nil
	})

	v, err := d.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, v)

	fail = true
	s.Set(ctx, 1)
	_, err = d.Read(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, d.cached)

	fail = false
	v, err = d.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
}
