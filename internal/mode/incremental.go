package mode

import (
	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// controlAbsoluteIncrementalButtons implements §4.4.4: a button press is a
// command to increment the target by a magnitude/direction derived from
// the press's own "velocity" (how hard/long, expressed as a 0..1 value).
func (m *Mode) controlAbsoluteIncrementalButtons(v primitives.Unit, target Target) (ControlResult, bool) {
	if v.IsZero() {
		return ControlResult{}, false
	}
	if !v.IsWithinInterval(m.config.SourceInterval) {
		switch m.config.OutOfRangeBehavior {
		case OutOfRangeIgnore:
			return ControlResult{}, false
		case OutOfRangeMin:
			v = m.config.SourceInterval.Min()
		default:
			v = v.ClampToInterval(m.config.SourceInterval)
		}
	}
	normalized := v.Normalize(m.config.SourceInterval, primitives.PreferOne, primitives.BaseEpsilon)

	factor := m.stepCountFactorFromNormalized(normalized.Get())
	direction := 1
	if m.config.Reverse {
		direction = -1
	}
	fire, magnitude := m.throttle(factor, direction)
	if !fire || magnitude == 0 {
		return ControlResult{}, false
	}

	ct := target.ControlType()
	switch ct.Kind {
	case ControlTypeRelative, ControlTypeVirtualMulti:
		return hitTarget(control.Relative(primitives.NewDiscreteIncrement(int32(magnitude * direction)))), true
	case ControlTypeVirtualButton:
		return ControlResult{}, false
	case ControlTypeAbsoluteDiscrete:
		return m.applyDiscreteIncrement(magnitude*direction, target, ct)
	default:
		return m.applyContinuousIncrement(magnitude*direction, target)
	}
}

// applyContinuousIncrement converts a signed step count into a unit
// increment via StepSizeInterval.Min as the atomic step, clamps it to
// StepSizeInterval, and applies it rotating or clamping per configuration.
func (m *Mode) applyContinuousIncrement(signedSteps int, target Target) (ControlResult, bool) {
	current, hasCurrent := target.CurrentValue()
	currentUnit := primitives.NewUnit(0)
	if hasCurrent {
		currentUnit = current.ToUnit().SnapToGridByIntervalSize(m.config.StepSizeInterval.Min())
	}

	atomicStep := m.config.StepSizeInterval.Min().Get()
	magnitude := atomicStep * float64(absInt(signedSteps))
	if signedSteps < 0 {
		magnitude = -magnitude
	}
	inc := primitives.NewUnitIncrement(magnitude).ClampToInterval(m.config.StepSizeInterval)

	var final primitives.Unit
	if m.config.Rotate {
		final = currentUnit.AddRotating(inc, primitives.FullUnitInterval(), primitives.BaseEpsilon)
	} else {
		final = currentUnit.AddClamping(inc, primitives.FullUnitInterval(), primitives.BaseEpsilon)
	}

	if !hasCurrent || !approxEqual(final.Get(), currentUnit.Get(), primitives.BaseEpsilon) {
		return hitTarget(control.AbsoluteContinuous(final)), true
	}
	return leaveTargetUntouched(control.AbsoluteContinuous(final)), true
}

// applyDiscreteIncrement applies a signed step count directly to a
// discrete target's Fraction, bounded by DiscreteTargetValueInterval and
// the target's own reported max.
func (m *Mode) applyDiscreteIncrement(signedSteps int, target Target, ct ControlType) (ControlResult, bool) {
	current, hasCurrent := target.CurrentValue()
	var actual, max uint32
	if hasCurrent && current.IsDiscrete() {
		f := current.ToFraction()
		actual, max = f.Actual(), f.Max()
	} else if discreteMax, ok := discreteMaxFromAtomicStep(ct.AtomicStep); ok {
		max = discreteMax
	}

	newActual := int64(actual) + int64(signedSteps)
	lo := int64(m.config.DiscreteTargetValueInterval.Min().Get())
	hi := int64(m.config.DiscreteTargetValueInterval.Max().Get())
	if uint32(hi) > max && max > 0 {
		hi = int64(max)
	}
	if newActual < lo {
		if m.config.Rotate {
			newActual = hi
		} else {
			newActual = lo
		}
	}
	if newActual > hi {
		if m.config.Rotate {
			newActual = lo
		} else {
			newActual = hi
		}
	}

	result := control.AbsoluteDiscrete(primitives.NewFraction(uint32(newActual), max))
	if !hasCurrent || uint32(newActual) != actual {
		return hitTarget(result), true
	}
	return leaveTargetUntouched(result), true
}
