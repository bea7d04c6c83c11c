package mode

import (
	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// Feedback implements §4.4.7: reverses the control pipeline, without jump
// restriction, to turn a target's current value into a source-domain
// AbsoluteValue ready for source.Encode. Uses FeedbackEpsilon (larger than
// BaseEpsilon) for the containment test, so FP drift in reported target
// values can't flip feedback state when TargetInterval has collapsed to a
// single point.
func (m *Mode) Feedback(targetValue control.AbsoluteValue, opts FeedbackOptions) (control.AbsoluteValue, bool) {
	raw := targetValue.ToUnit()
	minIsMax := primitives.PreferZero
	if withinEpsilon(raw, m.config.TargetInterval, primitives.FeedbackEpsilon) {
		minIsMax = primitives.PreferOne
	} else {
		switch m.config.OutOfRangeBehavior {
		case OutOfRangeIgnore:
			return control.AbsoluteValue{}, false
		case OutOfRangeMin:
			raw = m.config.TargetInterval.Min()
		default:
			raw = raw.ClampToInterval(m.config.TargetInterval)
		}
	}

	normalized := raw.Normalize(m.config.TargetInterval, minIsMax, primitives.FeedbackEpsilon)
	if m.config.Reverse {
		normalized = normalized.Inverse()
	}

	result := control.Continuous(normalized)
	if m.config.FeedbackTransformation != nil {
		out, err := m.config.FeedbackTransformation.Transform(normalized.Get(), targetValue, true, m.config.UseDiscreteProcessing)
		if err != nil {
			logf("feedback transformation failed, passing through: %v", err)
		} else {
			result = out
		}
	}

	denormalized := result.ToUnit().Denormalize(m.config.SourceInterval)

	if (m.config.UseDiscreteProcessing || opts.SourceIsVirtual) && opts.MaxDiscreteSourceValue != nil {
		discreteIv := primitives.NewInterval(primitives.NewDiscreteValue(0), primitives.NewDiscreteValue(*opts.MaxDiscreteSourceValue))
		return control.Discrete(primitives.MapFromUnitIntervalToDiscrete(denormalized, discreteIv)), true
	}
	return control.Continuous(denormalized), true
}

func withinEpsilon(u primitives.Unit, iv primitives.Interval[primitives.Unit], epsilon float64) bool {
	return u.Get() >= iv.Min().Get()-epsilon && u.Get() <= iv.Max().Get()+epsilon
}
