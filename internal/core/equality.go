package core

import "reflect"

// maxEqualityDepth bounds the recursive structural comparison:
// recursion is bounded (≈10), and pairs that would require deeper
// recursion compare unequal rather than diverge.
const maxEqualityDepth = 10

// isEqual implements the equality relation: two values
// compare equal when they are identical (including NaN ≡ NaN), or when
// both are structurally equal composite values (struct/pointer/map/
// slice/array) with every corresponding element equal under the same
// relation, recursion bounded and cycle-guarded. Anything else (e.g.
// channels) falls back to Go's native ==, which is the closest stand-in
// for "non-frozen objects are only equal under identity". Func values
// are not comparable and never compare equal, not even to themselves.
func isEqual(a, b any) bool {
	return isEqualValue(reflect.ValueOf(a), reflect.ValueOf(b), 0, nil)
}

func isEqualValue(av, bv reflect.Value, depth int, seen map[[2]uintptr]struct{}) bool {
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Float32, reflect.Float64:
		af, bf := av.Float(), bv.Float()
		if af != af && bf != bf { // NaN ≡ NaN
			return true
		}
		return af == bf

	case reflect.Struct:
		if depth >= maxEqualityDepth {
			return false
		}
		for i := 0; i < av.NumField(); i++ {
			if !isEqualValue(av.Field(i), bv.Field(i), depth+1, seen) {
				return false
			}
		}
		return true

	case reflect.Ptr:
		if av.Pointer() == bv.Pointer() {
			return true
		}
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() && bv.IsNil()
		}
		if depth >= maxEqualityDepth {
			return false
		}
		key := [2]uintptr{av.Pointer(), bv.Pointer()}
		if seen == nil {
			seen = make(map[[2]uintptr]struct{})
		}
		if _, ok := seen[key]; ok {
			// already comparing this pair further up the stack: treat
			// as equal-so-far to let sibling fields decide, matching
			// the guard-set behavior for self-referential structures.
			return true
		}
		seen[key] = struct{}{}
		return isEqualValue(av.Elem(), bv.Elem(), depth+1, seen)

	case reflect.Slice, reflect.Array:
		if av.Kind() == reflect.Slice {
			if av.IsNil() != bv.IsNil() {
				return false
			}
			if av.Pointer() == bv.Pointer() && av.Len() == bv.Len() {
				return true
			}
		}
		if av.Len() != bv.Len() {
			return false
		}
		if depth >= maxEqualityDepth {
			return av.Len() == 0
		}
		for i := 0; i < av.Len(); i++ {
			if !isEqualValue(av.Index(i), bv.Index(i), depth+1, seen) {
				return false
			}
		}
		return true

	case reflect.Map:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.Pointer() == bv.Pointer() {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		if depth >= maxEqualityDepth {
			return av.Len() == 0
		}
		iter := av.MapRange()
		for iter.Next() {
			bval := bv.MapIndex(iter.Key())
			if !bval.IsValid() || !isEqualValue(iter.Value(), bval, depth+1, seen) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.IsNil() {
			return true
		}
		return isEqualValue(av.Elem(), bv.Elem(), depth, seen)

	default:
		if !av.Comparable() {
			return false
		}
		return av.Equal(bv)
	}
}
