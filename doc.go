// Package rubedo is a fine-grained reactive computation engine: values
// are expressed as pure functions of other values, re-evaluated lazily
// on demand, with change notifications propagated precisely along the
// dependency graph.
//
// Three kinds of node make up the graph. State is a writable cell.
// Derived is a memoized, pull-based computation over other nodes.
// Effect is a reactive leaf whose re-run is deferred to a microtask
// whenever something it reads changes.
//
//	count := rubedo.NewState(0)
//	doubled := rubedo.NewDerived(func() int { return count.Read() * 2 })
//	rubedo.NewEffect(func(e *rubedo.Effect) func() {
//		fmt.Println("doubled is now", doubled.Read())
//		return nil
//	}) // runs once immediately, printing "doubled is now 0"
//	count.Write(21) // prints "doubled is now 42" once the write's microtask drain runs
//
// The containers, derived-array views, and signal-bus layers that
// normally sit on top of a library like this are out of scope here;
// see internal/core for the tracking/invalidation primitives they'd
// hook into.
package rubedo
