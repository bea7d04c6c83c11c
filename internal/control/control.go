// Package control implements the tagged-union value types that flow through
// the mapping pipeline: ControlValue (incoming, from a source) and
// AbsoluteValue (outgoing, target state for feedback).
package control

import "github.com/schollz/ctlmap/internal/primitives"

// ValueKind discriminates the payload carried by a ControlValue.
type ValueKind int

const (
	KindAbsoluteContinuous ValueKind = iota
	KindAbsoluteDiscrete
	KindRelative
)

// ControlValue is what a Source decodes a MIDI event into: either an
// absolute position (continuous or discrete) or a relative increment.
type ControlValue struct {
	kind       ValueKind
	continuous primitives.Unit
	discrete   primitives.Fraction
	increment  primitives.DiscreteIncrement
}

func AbsoluteContinuous(u primitives.Unit) ControlValue {
	return ControlValue{kind: KindAbsoluteContinuous, continuous: u}
}

func AbsoluteDiscrete(f primitives.Fraction) ControlValue {
	return ControlValue{kind: KindAbsoluteDiscrete, discrete: f}
}

func Relative(i primitives.DiscreteIncrement) ControlValue {
	return ControlValue{kind: KindRelative, increment: i}
}

func (c ControlValue) Kind() ValueKind { return c.kind }

func (c ControlValue) IsAbsolute() bool { return c.kind != KindRelative }

func (c ControlValue) IsRelative() bool { return c.kind == KindRelative }

// Increment returns the relative payload; only valid when Kind()==KindRelative.
func (c ControlValue) Increment() primitives.DiscreteIncrement { return c.increment }

// Unit returns the continuous projection of c: the continuous payload as-is,
// or a discrete payload's actual/max projection. Panics for Relative - callers
// must check Kind()/IsAbsolute first, since a relative increment has no
// absolute position.
func (c ControlValue) Unit() primitives.Unit {
	switch c.kind {
	case KindAbsoluteContinuous:
		return c.continuous
	case KindAbsoluteDiscrete:
		return c.discrete.ToUnit()
	default:
		panic("control: Unit() called on a Relative ControlValue")
	}
}

// Fraction returns the discrete payload; only valid when Kind()==KindAbsoluteDiscrete.
func (c ControlValue) Fraction() primitives.Fraction { return c.discrete }

// IsZero reports whether an absolute control value represents "released"/0.
// Used by the button-usage filters in mode.Control.
func (c ControlValue) IsZero() bool {
	switch c.kind {
	case KindAbsoluteContinuous:
		return c.continuous.IsZero()
	case KindAbsoluteDiscrete:
		return c.discrete.Actual() == 0
	default:
		return false
	}
}

// AbsoluteKind discriminates the payload carried by an AbsoluteValue.
type AbsoluteKind int

const (
	AbsoluteKindContinuous AbsoluteKind = iota
	AbsoluteKindDiscrete
)

// AbsoluteValue is target state: what a Target reports as its current value,
// and what Mode.Feedback produces for a Source to encode.
type AbsoluteValue struct {
	kind       AbsoluteKind
	continuous primitives.Unit
	discrete   primitives.Fraction
}

func Continuous(u primitives.Unit) AbsoluteValue {
	return AbsoluteValue{kind: AbsoluteKindContinuous, continuous: u}
}

func Discrete(f primitives.Fraction) AbsoluteValue {
	return AbsoluteValue{kind: AbsoluteKindDiscrete, discrete: f}
}

func (a AbsoluteValue) Kind() AbsoluteKind { return a.kind }

func (a AbsoluteValue) IsDiscrete() bool { return a.kind == AbsoluteKindDiscrete }

// ToUnit returns the continuous projection: as-is for Continuous, actual/max
// for Discrete.
func (a AbsoluteValue) ToUnit() primitives.Unit {
	if a.kind == AbsoluteKindDiscrete {
		return a.discrete.ToUnit()
	}
	return a.continuous
}

// ToFraction returns the discrete payload; only valid when Kind()==AbsoluteKindDiscrete.
func (a AbsoluteValue) ToFraction() primitives.Fraction { return a.discrete }

// ApproxEqual compares two absolute values by their continuous projection,
// within epsilon. Used for change-detection and the min==max feedback
// invariant (callers pass BaseEpsilon or FeedbackEpsilon as appropriate).
func (a AbsoluteValue) ApproxEqual(other AbsoluteValue, epsilon float64) bool {
	d := a.ToUnit().Get() - other.ToUnit().Get()
	if d < 0 {
		d = -d
	}
	return d <= epsilon
}

// ToControlValue converts target feedback state into the equivalent absolute
// ControlValue representation, for callers that need to round-trip through
// the control-side type.
func (a AbsoluteValue) ToControlValue() ControlValue {
	if a.kind == AbsoluteKindDiscrete {
		return AbsoluteDiscrete(a.discrete)
	}
	return AbsoluteContinuous(a.continuous)
}
