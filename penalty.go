package rubedo

import "github.com/kernel32dev/rubedo/internal/core"

// OutsidePolicy controls what happens when a reactive node is read
// outside of any derivation or effect (the
// "onUseDerivedOutsideOfDerivation" penalty knob). The zero value is
// AllowOutsideDerivation.
type OutsidePolicy = core.Policy

const (
	// AllowOutsideDerivation silently permits reads outside of a
	// derivation or effect (the default).
	AllowOutsideDerivation = core.PolicyAllow
	// ThrowOutsideDerivation raises UseOutsideDerivation.
	ThrowOutsideDerivation = core.PolicyThrow
)

// SetOutsideDerivationPolicy installs the process-wide penalty knob
// for reads taken outside of any derivation or effect. If hook is
// non-nil it is called instead of consulting policy, so callers can
// log or report without turning the read into an error
// ("onUseDerivedOutsideOfDerivation").
func SetOutsideDerivationPolicy(policy OutsidePolicy, hook func()) {
	core.SetOutsidePolicy(policy, hook)
}
