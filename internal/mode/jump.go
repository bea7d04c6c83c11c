package mode

import (
	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
)

// applyJumpRestriction implements §4.4.3. v is the freshly computed target
// value (post round, pre-jump). It returns the value to actually apply and
// whether the event is accepted at all (false means drop entirely, the
// Pickup/deadband/no-previous-value/zero-delta cases).
func (m *Mode) applyJumpRestriction(v primitives.Unit, current control.AbsoluteValue, hasCurrent bool) (primitives.Unit, bool) {
	if primitives.IsFullUnit(m.config.JumpInterval) && !m.config.UseDiscreteProcessing {
		return v, true
	}
	if !hasCurrent {
		return v, true
	}

	currentUnit := current.ToUnit()
	distance := v.CalcDistanceFrom(currentUnit)

	if distance.Get() > m.config.JumpInterval.Max().Get() {
		return m.applyTakeover(v, currentUnit, distance)
	}
	if distance.Get() < m.config.JumpInterval.Min().Get() {
		return v, false
	}
	return v, true
}

func (m *Mode) applyTakeover(v, currentUnit, distance primitives.Unit) (primitives.Unit, bool) {
	switch m.config.TakeoverMode {
	case TakeoverPickup:
		return v, false
	case TakeoverParallel:
		return m.takeoverParallel(v, currentUnit)
	case TakeoverLongTimeNoSee:
		return m.takeoverLongTimeNoSee(v, currentUnit, distance), true
	case TakeoverCatchUp:
		return m.takeoverCatchUp(v, currentUnit)
	}
	return v, false
}

// takeoverLongTimeNoSee ("Attract"): moves the target toward v by half of
// JumpInterval.Max (or by the whole remaining distance, if that is
// smaller), so a long-idle control doesn't snap the target all the way on
// first contact.
func (m *Mode) takeoverLongTimeNoSee(v, currentUnit, distance primitives.Unit) primitives.Unit {
	approach := m.config.JumpInterval.Max().Get() / 2
	if approach > distance.Get() {
		approach = distance.Get()
	}
	direction := primitives.NegativeIf(v.Get() < currentUnit.Get())
	return primitives.NewUnit(currentUnit.Get() + float64(direction)*approach)
}

// takeoverParallel: delta between this control value and the previous one,
// clamped to JumpInterval and added to the target. Drops the first event
// (no previous value yet) and zero-delta repeats.
func (m *Mode) takeoverParallel(v, currentUnit primitives.Unit) (primitives.Unit, bool) {
	if m.previousAbsoluteControlValue == nil {
		return v, false
	}
	delta := v.Get() - m.previousAbsoluteControlValue.Get()
	if delta == 0 {
		return v, false
	}
	inc := primitives.NewUnitIncrement(delta).ClampToInterval(m.config.JumpInterval)
	return primitives.NewUnit(currentUnit.Get() + inc.Get()), true
}

// takeoverCatchUp: like Parallel, but the delta is scaled by how much
// closer the target is to its bound than the control is to its own, so
// the target catches up to the control exactly as both reach the bound
// together. Drops when either distance-to-bound is zero.
func (m *Mode) takeoverCatchUp(v, currentUnit primitives.Unit) (primitives.Unit, bool) {
	if m.previousAbsoluteControlValue == nil {
		return v, false
	}
	previous := m.previousAbsoluteControlValue.Get()
	delta := v.Get() - previous
	if delta == 0 {
		return v, false
	}

	targetInterval := m.config.TargetInterval
	var targetToBound, sourceToBound float64
	if delta > 0 {
		targetToBound = targetInterval.Max().Get() - currentUnit.Get()
		sourceToBound = targetInterval.Max().Get() - previous
	} else {
		targetToBound = currentUnit.Get() - targetInterval.Min().Get()
		sourceToBound = previous - targetInterval.Min().Get()
	}
	if targetToBound == 0 || sourceToBound == 0 {
		return v, false
	}

	scaled := delta * (targetToBound / sourceToBound)
	inc := primitives.NewUnitIncrement(scaled).ClampToInterval(m.config.JumpInterval)
	return primitives.NewUnit(currentUnit.Get() + inc.Get()), true
}
