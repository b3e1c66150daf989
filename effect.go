package rubedo

import (
	"runtime"
	"sync"
	"weak"

	"github.com/kernel32dev/rubedo/internal/core"
)

// Effect is a reactive leaf whose re-run is deferred to a microtask
// whenever a node it read last time changes.
//
// fn receives the Effect itself (so it can call Clear/Trigger/Run or
// read Initializing) and may return a cleanup function, run before the
// next re-run and on Clear.
type Effect struct {
	e *core.Effect
}

// NewEffect constructs a weakly-held effect: its lifetime is whatever
// the caller does with the returned *Effect ("Effect.Weak"). This is
// also what a bare `Effect(anchor?, fn)` call with no anchor degenerates
// to.
func NewEffect(fn func(*Effect) func()) *Effect {
	ctx := currentContext()
	eff := &Effect{}
	ctx.Enter()
	defer ctx.Leave()
	eff.e = core.NewEffect(ctx, func(ce *core.Effect) func() {
		return fn(eff)
	})
	return eff
}

// NewPersistentEffect constructs an effect that is kept alive by a
// process-wide strong set until Clear is called explicitly
// ("Effect.Persistent").
func NewPersistentEffect(fn func(*Effect) func()) *Effect {
	eff := NewEffect(fn)
	persistentPin.add(eff)
	eff.e.OnCleared(func() { persistentPin.remove(eff) })
	return eff
}

// NewAnchoredEffect constructs an effect pinned alive for exactly as
// long as anchor is reachable elsewhere in the program ("Effect(anchor,
// fn)": anchor references that pin it against garbage collection). When
// anchor is collected the effect is cleared automatically.
func NewAnchoredEffect[A any](anchor *A, fn func(*Effect) func()) *Effect {
	eff := NewEffect(fn)
	wp := pinToAnchor(anchor, eff)
	eff.e.OnCleared(func() { unpinFromAnchor(wp, eff) })
	return eff
}

// Clear is clear(): idempotent teardown.
func (e *Effect) Clear() { e.e.Clear() }

// Trigger is trigger(): force a re-run, treating the next scheduled run
// as definitely invalid and scheduling one if none is pending.
func (e *Effect) Trigger() {
	ctx := currentContext()
	ctx.Enter()
	defer ctx.Leave()
	e.e.Trigger(ctx)
}

// Run is run(): synchronously performs a pending scheduled re-run; it
// does nothing when no re-run is scheduled.
func (e *Effect) Run() {
	ctx := currentContext()
	ctx.Enter()
	defer ctx.Leave()
	e.e.Run(ctx)
}

// Active reports whether the effect has not been Cleared.
func (e *Effect) Active() bool { return e.e.Active() }

// Initializing reports whether the effect's first run has not yet
// completed.
func (e *Effect) Initializing() bool { return e.e.Initializing() }

// persistentPin is the strong pin-set backing NewPersistentEffect.
var persistentPin = &pinSet{}

type pinSet struct {
	mu  sync.Mutex
	set map[*Effect]struct{}
}

func (p *pinSet) add(e *Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.set == nil {
		p.set = make(map[*Effect]struct{})
	}
	p.set[e] = struct{}{}
}

func (p *pinSet) remove(e *Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.set, e)
}

// anchorPins emulates a weak map: the key is a weak.Pointer so it never
// keeps the anchor alive, and the value is the strong list of effects
// pinned to it. A runtime.AddCleanup hook fires when the anchor is
// collected, tearing down every pinned effect and dropping the entry so
// those effects become collectable in turn.
var anchorPins sync.Map // key: weak.Pointer[A] for whatever A; value: *[]*Effect (a pointer, so CompareAndSwap can compare it)

func pinToAnchor[A any](anchor *A, eff *Effect) weak.Pointer[A] {
	wp := weak.Make(anchor)
	for {
		if v, loaded := anchorPins.Load(wp); loaded {
			list := *v.(*[]*Effect)
			next := append(append([]*Effect(nil), list...), eff)
			if anchorPins.CompareAndSwap(wp, v, &next) {
				return wp
			}
			continue
		}
		if _, loaded := anchorPins.LoadOrStore(wp, &[]*Effect{eff}); !loaded {
			runtime.AddCleanup(anchor, func(w weak.Pointer[A]) {
				if v, ok := anchorPins.LoadAndDelete(w); ok {
					for _, pinned := range *v.(*[]*Effect) {
						pinned.Clear()
					}
				}
			}, wp)
			return wp
		}
	}
}

// unpinFromAnchor removes eff from the list pinned to wp, e.g. when the
// effect is cleared independently of its anchor being collected
// (clear() removes all anchor pins).
func unpinFromAnchor[A any](wp weak.Pointer[A], eff *Effect) {
	for {
		v, loaded := anchorPins.Load(wp)
		if !loaded {
			return
		}
		list := *v.(*[]*Effect)
		next := make([]*Effect, 0, len(list))
		for _, e := range list {
			if e != eff {
				next = append(next, e)
			}
		}
		if len(next) == len(list) {
			return
		}
		if anchorPins.CompareAndSwap(wp, v, &next) {
			return
		}
	}
}
