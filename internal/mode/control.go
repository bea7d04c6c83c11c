package mode

import (
	"time"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// Control is the main dispatch (§4.4.1). now drives the press-duration
// processor's clock; it does not otherwise affect the computation.
func (m *Mode) Control(now time.Time, cv control.ControlValue, target Target, opts ControlOptions) (ControlResult, bool) {
	if cv.IsRelative() {
		inc := cv.Increment()
		if !m.encoderAllows(inc) {
			return ControlResult{}, false
		}
		if m.config.ConvertRelativeToAbsolute {
			m.accumulateRelative(inc, opts)
			return m.controlAbsoluteNormal(control.AbsoluteContinuous(m.currentAbsoluteValue), target)
		}
		return m.controlRelativeNormal(inc, target)
	}

	v, ok := m.pressDuration.ProcessPressOrRelease(now, cv)
	if !ok {
		return ControlResult{}, false
	}
	switch m.config.AbsoluteMode {
	case AbsoluteNormal:
		return m.controlAbsoluteNormal(v, target)
	case AbsoluteIncrementalButtons:
		return m.controlAbsoluteIncrementalButtons(v.Unit(), target)
	case AbsoluteToggleButtons:
		return m.controlAbsoluteToggleButtons(v, target)
	}
	return ControlResult{}, false
}

func (m *Mode) encoderAllows(inc primitives.DiscreteIncrement) bool {
	switch m.config.EncoderUsage {
	case EncoderIncrementOnly:
		return inc.IsPositive()
	case EncoderDecrementOnly:
		return !inc.IsPositive()
	default:
		return true
	}
}

func (m *Mode) accumulateRelative(inc primitives.DiscreteIncrement, opts ControlOptions) {
	unitInc, ok := inc.ToUnitIncrement(m.config.StepSizeInterval.Min())
	if !ok {
		return
	}
	full := primitives.FullUnitInterval()
	if m.config.Rotate || opts.EnforceRotate {
		m.currentAbsoluteValue = m.currentAbsoluteValue.AddRotating(unitInc, full, primitives.BaseEpsilon)
	} else {
		m.currentAbsoluteValue = m.currentAbsoluteValue.AddClamping(unitInc, full, primitives.BaseEpsilon)
	}
}

// controlAbsoluteNormal implements the pipeline in §4.4.2: button filter ->
// source-interval match -> normalize -> transform -> reverse ->
// target-interval denormalize -> round -> jump restriction -> change-detect.
func (m *Mode) controlAbsoluteNormal(v control.ControlValue, target Target) (ControlResult, bool) {
	if m.config.ButtonUsage == ButtonPressOnly && v.IsZero() {
		return ControlResult{}, false
	}
	if m.config.ButtonUsage == ButtonReleaseOnly && !v.IsZero() {
		return ControlResult{}, false
	}

	raw := v.Unit()
	minIsMax := primitives.PreferZero
	if raw.IsWithinInterval(m.config.SourceInterval) {
		minIsMax = primitives.PreferOne
	} else {
		switch m.config.OutOfRangeBehavior {
		case OutOfRangeIgnore:
			return ControlResult{}, false
		case OutOfRangeMin:
			raw = m.config.SourceInterval.Min()
		default:
			raw = raw.ClampToInterval(m.config.SourceInterval)
		}
	}
	normalized := raw.Normalize(m.config.SourceInterval, minIsMax, primitives.BaseEpsilon)

	current, hasCurrent := target.CurrentValue()
	result := control.Continuous(normalized)
	if m.config.ControlTransformation != nil {
		out, err := m.config.ControlTransformation.Transform(normalized.Get(), current, hasCurrent, m.config.UseDiscreteProcessing)
		if err != nil {
			logf("control transformation failed, passing through: %v", err)
		} else {
			result = out
		}
	}

	ct := target.ControlType()
	result = m.applyReverse(result, ct)

	denormalized := result.ToUnit().Denormalize(m.config.TargetInterval)

	if m.config.RoundTargetValue {
		if step, ok := ct.roundingGrid(); ok && step > 0 {
			denormalized = denormalized.SnapToGridByIntervalSize(primitives.NewUnit(step))
		}
	}

	final, accepted := m.applyJumpRestriction(denormalized, current, hasCurrent)
	m.previousAbsoluteControlValue = &denormalized
	if !accepted {
		return ControlResult{}, false
	}

	return m.finalizeAbsolute(final, current, hasCurrent, ct), true
}

// applyReverse implements §4.4.2 step 5: plain subtraction reverse for a
// discrete result under discrete processing; scaling reverse (collapse to
// continuous, then invert) for every other combination involving a
// discrete target; plain inversion otherwise.
func (m *Mode) applyReverse(result control.AbsoluteValue, ct ControlType) control.AbsoluteValue {
	if !m.config.Reverse {
		return result
	}
	if m.config.UseDiscreteProcessing && result.IsDiscrete() {
		f := result.ToFraction()
		return control.Discrete(primitives.NewFraction(f.Max()-f.Actual(), f.Max()))
	}
	return control.Continuous(result.ToUnit().Inverse())
}

// finalizeAbsolute wraps the post-pipeline Unit into the right
// ControlValue shape for the target's capability, and performs
// change-detection (§4.4.2 step 9).
func (m *Mode) finalizeAbsolute(final primitives.Unit, current control.AbsoluteValue, hasCurrent bool, ct ControlType) ControlResult {
	var cv control.ControlValue
	if ct.IsDiscrete() {
		if max, ok := discreteMaxFromAtomicStep(ct.AtomicStep); ok {
			cv = control.AbsoluteDiscrete(primitives.MapFromUnitIntervalToDiscrete(final, primitives.NewInterval(primitives.NewDiscreteValue(0), primitives.NewDiscreteValue(max))))
		} else {
			cv = control.AbsoluteContinuous(final)
		}
	} else {
		cv = control.AbsoluteContinuous(final)
	}

	if !hasCurrent || ct.IsRetriggerable() || !approxEqual(final.Get(), current.ToUnit().Get(), primitives.BaseEpsilon) {
		return hitTarget(cv)
	}
	return leaveTargetUntouched(cv)
}

func discreteMaxFromAtomicStep(step float64) (uint32, bool) {
	if step <= 0 {
		return 0, false
	}
	return uint32(1/step + 0.5), true
}

func approxEqual(a, b, epsilon float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= epsilon
}
