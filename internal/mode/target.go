package mode

import "github.com/schollz/ctlmap/internal/control"

// ControlTypeKind discriminates a target's capability snapshot.
type ControlTypeKind int

const (
	ControlTypeAbsoluteContinuous ControlTypeKind = iota
	ControlTypeAbsoluteContinuousRoundable
	ControlTypeAbsoluteContinuousRetriggerable
	ControlTypeAbsoluteDiscrete
	ControlTypeRelative
	ControlTypeVirtualMulti
	ControlTypeVirtualButton
)

// ControlType is what a Target reports about itself: which capability it
// has, plus whatever payload that capability carries (a rounding step for
// AbsoluteContinuousRoundable, an atomic step for AbsoluteDiscrete).
type ControlType struct {
	Kind         ControlTypeKind
	RoundingStep float64
	AtomicStep   float64
}

func (c ControlType) IsDiscrete() bool { return c.Kind == ControlTypeAbsoluteDiscrete }

func (c ControlType) IsVirtual() bool {
	return c.Kind == ControlTypeVirtualMulti || c.Kind == ControlTypeVirtualButton
}

func (c ControlType) IsRetriggerable() bool {
	return c.Kind == ControlTypeAbsoluteContinuousRetriggerable
}

// roundingGrid returns the step this control type wants values snapped to,
// if any.
func (c ControlType) roundingGrid() (float64, bool) {
	switch c.Kind {
	case ControlTypeAbsoluteContinuousRoundable:
		return c.RoundingStep, true
	case ControlTypeAbsoluteDiscrete:
		return c.AtomicStep, true
	default:
		return 0, false
	}
}

// Target is the polymorphic handle Mode consumes (§6): a current-value
// getter plus a capability snapshot. Implementations live in the host
// (cmd/ctlmap's watch command supplies an in-memory one).
type Target interface {
	CurrentValue() (control.AbsoluteValue, bool)
	ControlType() ControlType
}

// Transformation is the polymorphic handle for a pluggable control or
// feedback transform (expression, lookup table, curve). A transform
// failure is not surfaced to the host - Mode falls back to the
// pre-transform value, per §7.
type Transformation interface {
	Transform(input float64, currentTarget control.AbsoluteValue, hasCurrentTarget bool, discrete bool) (control.AbsoluteValue, error)
}
