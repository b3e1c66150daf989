package rubedo

import "github.com/kernel32dev/rubedo/internal/core"

func currentContext() *core.Context {
	return core.Current()
}

// panicOnError turns the closed set of core.Error kinds into a Go
// panic. The public derivator signature (func() T) has no error
// return, so CircularDependency/DerivationRepeatLimit/DerivatorException
// can only reach the caller this way — a recover() higher up the same
// goroutine's evaluation stack (inside an enclosing Derived's
// evaluation) turns it back into a normal error return for that node.
func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
