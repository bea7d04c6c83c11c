package mode

import (
	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// controlAbsoluteToggleButtons implements §4.4.5: a non-zero press flips
// the target between TargetInterval's bounds, based on which side of the
// interval's center the current value sits on. Zero input (release) is
// ignored outright.
func (m *Mode) controlAbsoluteToggleButtons(v control.ControlValue, target Target) (ControlResult, bool) {
	if v.IsZero() {
		return ControlResult{}, false
	}

	current, hasCurrent := target.CurrentValue()
	center := primitives.CenterUnit(m.config.TargetInterval)

	result := m.config.TargetInterval.Max()
	if hasCurrent && current.ToUnit().Get() > center.Get() {
		result = m.config.TargetInterval.Min()
	}

	cv := control.AbsoluteContinuous(result)
	if !hasCurrent || !approxEqual(result.Get(), current.ToUnit().Get(), 1e-8) {
		return hitTarget(cv), true
	}
	return leaveTargetUntouched(cv), true
}
