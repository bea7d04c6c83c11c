package mode

import (
	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// controlRelativeNormal implements §4.4.6: an incoming discrete increment
// is clamped/expanded through StepCountInterval (the same throttle engine
// as incremental buttons), then applied to whatever kind of target is
// attached.
func (m *Mode) controlRelativeNormal(i primitives.DiscreteIncrement, target Target) (ControlResult, bool) {
	direction := i.Signum()
	if m.config.Reverse {
		direction = -direction
	}
	factor := m.stepCountFactorFromIncrement(absInt(int(i.Get())))
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
