package rubedo

// Batch runs fn with the microtask drain deferred until fn returns, so
// any number of State writes inside it that reach the same Effect
// coalesce into a single scheduled re-run, even though every exported
// call normally brackets its own drain point. Nested Batch calls only
// flush once the outermost one returns, using the same depth-counting
// shape as the rest of this package's entry-point bracketing.
func Batch(fn func()) {
	ctx := currentContext()
	ctx.Enter()
	defer ctx.Leave()
	fn()
}
