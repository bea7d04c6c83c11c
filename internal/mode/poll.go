package mode

import "time"

// WantsToBePolled reports whether this Mode's press-duration configuration
// needs Poll called on a cadence.
func (m *Mode) WantsToBePolled() bool {
	return m.pressDuration.WantsToBePolled()
}

// Poll implements §4.4's third operation: it delegates to the
// press-duration processor (§4.3) and, if a deferred value became due,
// runs it through the same absolute sub-mode dispatch Control uses.
func (m *Mode) Poll(now time.Time, target Target) (ControlResult, bool) {
	v, ok := m.pressDuration.Poll(now)
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
