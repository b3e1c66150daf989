package core

import "weak"

// taskState is the affect-task tri-state-plus-cleared.
type taskState int

const (
	taskCleared             taskState = iota // undefined
	taskIdle                                 // null
	taskScheduledTransitive                  // true
	taskScheduledDefinite                    // false
)

// Effect is a reactive leaf: a derivation whose invalidation enqueues a
// microtask that re-executes it.
type Effect struct {
	id identity

	w     *handle
	wWeak weak.Pointer[handle]

	possiblyInvalid map[weak.Pointer[handle]]any // P

	fn      func(*Effect) func()
	cleanup func()

	task         taskState
	initializing bool

	// onCleared is an optional hook invoked exactly once, the first
	// time Clear runs. The public package uses it to deregister the
	// effect from its pinning policy's bookkeeping — clear() removes
	// all anchor pins.
	onCleared func()
}

// OnCleared installs the hook described above. Must be called before
// Clear; only the most recently installed hook fires.
func (e *Effect) OnCleared(fn func()) { e.onCleared = fn }

// NewEffect allocates, schedules, and enqueues the effect's first run.
// Pinning policy is a caller concern layered on top (see the public
// package).
func NewEffect(ctx *Context, fn func(*Effect) func()) *Effect {
	e := &Effect{fn: fn, task: taskScheduledDefinite, initializing: true}
	ctx.enqueueMicrotask(func() { e.runScheduled(ctx) })
	return e
}

func (e *Effect) currentWeak() weak.Pointer[handle] { return e.wWeak }

func (e *Effect) permanent() weak.Pointer[handle] { return e.id.get(e) }

// Initializing reports whether the effect's first run has not yet
// completed: true until the first run completes.
func (e *Effect) Initializing() bool { return e.initializing }

// markPossiblyInvalid implements possiblyInvalidRecorder for Effect, the
// same bookkeeping Derived does: record that dep last produced
// lastValue, so a later transitive schedule can re-check it in
// runScheduled instead of unconditionally re-running.
func (e *Effect) markPossiblyInvalid(depPermanent weak.Pointer[handle], lastValue any) {
	if e.possiblyInvalid == nil {
		e.possiblyInvalid = make(map[weak.Pointer[handle]]any)
	}
	if _, ok := e.possiblyInvalid[depPermanent]; !ok {
		e.possiblyInvalid[depPermanent] = lastValue
	}
}

// Active reports affect-task != undefined.
func (e *Effect) Active() bool { return e.task != taskCleared }

// onInvalidated is the Effect branch of invalidate().
func (e *Effect) onInvalidated(ctx *Context, transitive bool) {
	switch e.task {
	case taskIdle:
		if transitive {
			e.task = taskScheduledTransitive
		} else {
			e.task = taskScheduledDefinite
		}
		ctx.enqueueMicrotask(func() { e.runScheduled(ctx) })
	case taskScheduledTransitive:
		if !transitive {
			e.task = taskScheduledDefinite
		}
	case taskScheduledDefinite, taskCleared:
		// no-op: already as-bad-as-it-gets, or cleared.
	}
}

// runScheduled is the scheduler closure body.
func (e *Effect) runScheduled(ctx *Context) {
	task := e.task
	if task != taskScheduledTransitive && task != taskScheduledDefinite {
		return
	}
	e.task = taskIdle

	if task == taskScheduledTransitive && e.possiblyInvalid != nil {
		valid, surviving := checkDeps(ctx, e.possiblyInvalid)
		if valid {
			e.possiblyInvalid = nil
			// Re-add this effect's own handle into each surviving
			// dependency's D: the invalidation signal that got us here
			// drained it out along the way, and skipping the re-run
			// means we'd otherwise never re-subscribe, so later direct
			// changes to a surviving dependency would go unnoticed.
			if e.wWeak != (weak.Pointer[handle]{}) {
				for _, wh := range surviving {
					if h := wh.Value(); h != nil {
						if dep, ok := h.owner.(interface{ dependentsSet() *depSet }); ok {
							dep.dependentsSet().add(e.wWeak)
						}
					}
				}
			}
			return
		}
	}
	e.possiblyInvalid = nil
	e.runNow(ctx)
}

func (e *Effect) runNow(ctx *Context) {
	if e.cleanup != nil {
		cleanup := e.cleanup
		e.cleanup = nil
		cleanup()
	}

	h := &handle{owner: e}
	wh := weak.Make(h)
	e.w = h
	e.wWeak = wh

	ctx.runActive(wh, func() {
		e.cleanup = e.fn(e)
	})

	e.initializing = false
}

// Clear is clear(): idempotent teardown.
func (e *Effect) Clear() {
	if e.task == taskCleared {
		return
	}
	if e.cleanup != nil {
		cleanup := e.cleanup
		e.cleanup = nil
		cleanup()
	}
	e.task = taskCleared
	e.possiblyInvalid = nil
	e.w = nil
	e.wWeak = weak.Pointer[handle]{}

	if e.onCleared != nil {
		hook := e.onCleared
		e.onCleared = nil
		hook()
	}
}

// Trigger is trigger(): force a re-run, treating the next scheduled run
// as definitely invalid and scheduling one if none is pending.
func (e *Effect) Trigger(ctx *Context) {
	if e.task == taskCleared {
		return
	}
	wasScheduled := e.task == taskScheduledTransitive || e.task == taskScheduledDefinite
	e.task = taskScheduledDefinite
	if !wasScheduled {
		ctx.enqueueMicrotask(func() { e.runScheduled(ctx) })
	}
}

// Run is run(): synchronously invokes the scheduler closure, which
// re-runs the effect only when a run is scheduled and is a no-op when
// the effect is idle.
func (e *Effect) Run(ctx *Context) {
	if e.task == taskCleared {
		return
	}
	e.runScheduled(ctx)
}

// checkDeps implements the possibly-invalid walk shared by Derived's
// Step C and the Effect scheduler's transitive re-check. It mutates p,
// deleting collected entries; clearing survivors' keys is left to the
// caller.
func checkDeps(ctx *Context, p map[weak.Pointer[handle]]any) (valid bool, surviving []weak.Pointer[handle]) {
	valid = true
	ctx.runIgnored(func() {
		for wh, lastVal := range p {
			h := wh.Value()
			if h == nil {
				delete(p, wh)
				continue
			}
			dep, ok := h.owner.(dependency)
			if !ok {
				delete(p, wh)
				continue
			}
			val, err := dep.readFor(ctx)
			if err != nil {
				valid = false
				return
			}
			if !isEqual(val, lastVal) {
				valid = false
				return
			}
			surviving = append(surviving, wh)
		}
	})
	return
}
