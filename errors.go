package rubedo

import (
	"errors"
	"fmt"

	"github.com/kernel32dev/rubedo/internal/core"
)

// Kind identifies one of the closed set of failure modes this package
// raises.
type Kind = core.Kind

const (
	TypeMismatch          = core.TypeMismatch
	CircularDependency    = core.CircularDependency
	DerivationRepeatLimit = core.DerivationRepeatLimit
	UseOutsideDerivation  = core.UseOutsideDerivation
	DerivatorException    = core.DerivatorException
)

// Error is the error type every failure mode in this package is
// reported as. Use errors.As to recover it and inspect Kind.
type Error = core.Error

// asPanicError turns an arbitrary recovered panic value into an error,
// preserving an already-typed *Error (e.g. one raised by panicOnError
// further down the same evaluation) instead of re-wrapping it.
func asPanicError(r any) error {
	if err, ok := r.(error); ok {
		var e *Error
		if errors.As(err, &e) {
			return e
		}
		return err
	}
	return fmt.Errorf("%v", r)
}
