package core

import "weak"

// depSet is the dependents set D: a set of weak
// activity handles belonging to the Derived/Effect nodes that read this
// node during their latest evaluation. Entries are advisory — a stale
// entry (its target already reused or released) is always safe to keep
// around and is discarded lazily wherever it's walked.
type depSet struct {
	m map[weak.Pointer[handle]]struct{}
}

func (d *depSet) add(h weak.Pointer[handle]) {
	if d.m == nil {
		d.m = make(map[weak.Pointer[handle]]struct{})
	}
	d.m[h] = struct{}{}
}

func (d *depSet) empty() bool {
	return len(d.m) == 0
}

// drain snapshots the set into a slice and clears it, per invariant 4:
// "D is cleared whenever the node's value changes or it is directly
// invalidated; the previous contents are walked to schedule
// invalidation."
func (d *depSet) drain() []weak.Pointer[handle] {
	if len(d.m) == 0 {
		return nil
	}
	out := make([]weak.Pointer[handle], 0, len(d.m))
	for h := range d.m {
		out = append(out, h)
	}
	d.m = nil
	return out
}
