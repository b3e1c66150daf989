package core

import "weak"

// possiblyInvalidRecorder is implemented by Derived and Effect so
// invalidate() can record P entries without a wider interface.
type possiblyInvalidRecorder interface {
	markPossiblyInvalid(depPermanent weak.Pointer[handle], lastValue any)
}

// invalidate notifies t, always the *subscriber*, that one of its
// dependencies changed or went possibly invalid; transitive
// distinguishes a direct write (false) from a propagated
// possibly-invalid signal (true).
func invalidate(ctx *Context, t target, transitive bool) {
	if e, ok := t.(*Effect); ok {
		e.onInvalidated(ctx, transitive)
		return
	}

	d, ok := t.(*Derived)
	if !ok {
		return
	}

	if !transitive {
		d.w = nil
	}

	if d.deps.empty() || ctx.inGuard(t) {
		return
	}

	ctx.markGuard(t)
	snapshot := d.deps.drain()
	for _, wh := range snapshot {
		h := wh.Value()
		if h == nil {
			continue
		}
		sub, ok := h.owner.(target)
		if !ok {
			continue
		}
		if sub.currentWeak() != wh {
			continue // stale: this activation is no longer the live one
		}
		wp := d.permanent()
		if rec, ok := sub.(possiblyInvalidRecorder); ok {
			rec.markPossiblyInvalid(wp, d.cachedValue())
		}
		invalidate(ctx, sub, true)
	}
	ctx.unmarkGuard(t)
}

// invalidateSet(S) is used by collaborator containers when a specific
// key changes. Every entry
// whose weak handle still matches the dependent's current activity
// handle is invalidated directly (non-transitive).
func invalidateSet(ctx *Context, s *depSet) {
	snapshot := s.drain()
	for _, wh := range snapshot {
		h := wh.Value()
		if h == nil {
			continue
		}
		sub, ok := h.owner.(target)
		if !ok {
			continue
		}
		if sub.currentWeak() != wh {
			continue
		}
		invalidate(ctx, sub, false)
	}
}
