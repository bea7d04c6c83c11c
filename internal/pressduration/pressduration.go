// Package pressduration implements the button debounce/latch state machine
// that sits in front of Mode's absolute control pipeline: it decides
// whether a raw press/release event passes through immediately, is
// suppressed until a timer elapses, or repeats on a turbo cadence while
// held.
package pressduration

import (
	"time"

	"github.com/schollz/ctlmap/internal/control"
)

// FireOn selects when a held button actually produces an event.
// FireOnPassthrough, the zero value, is the Mode default: every value is
// passed through unchanged with no state tracking at all. That matters
// because Mode runs *every* absolute control value through this processor,
// including continuous fader/knob values that are never "buttons" at all -
// only an explicitly configured FireOn engages the press/release latch.
type FireOn int

const (
	FireOnPassthrough FireOn = iota
	FireOnPress
	FireOnRelease
	FireOnBoth
	FireOnAfterMin
	FireOnTurbo
)

// Config is the press-duration configuration space (§6 of the pipeline
// spec): min/max press duration and the turbo repeat period are all
// zero-value-safe - a zero duration for a field a given FireOn mode
// doesn't use is simply ignored.
type Config struct {
	MinPressDuration time.Duration
	MaxPressDuration time.Duration
	TurboPeriod      time.Duration
	FireOn           FireOn
}

type state int

const (
	stateIdle state = iota
	statePressObserved
	stateReleaseArmed
)

// Processor is the stateful debounce/latch machine. Callers own the clock:
// every method takes `now` explicitly rather than reading a wall clock, so
// that control and poll both remain pure functions of their arguments and
// Processor's own state, per the determinism property Mode itself upholds.
type Processor struct {
	config Config

	state       state
	pressedAt   time.Time
	lastFire    time.Time
	firedAfterMin bool
	heldValue   control.ControlValue
}

func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// WantsToBePolled reports whether this processor was configured with any
// time-based behavior that needs Poll to be called on a cadence.
func (p *Processor) WantsToBePolled() bool {
	return p.config.FireOn == FireOnAfterMin || p.config.FireOn == FireOnTurbo
}

// ProcessPressOrRelease updates state for an incoming absolute value and
// returns (value, true) if it should be passed through to the rest of the
// control pipeline immediately, or (_, false) if it's suppressed pending a
// timer (in which case Poll will eventually surface it, or it will be
// dropped entirely, depending on FireOn).
func (p *Processor) ProcessPressOrRelease(now time.Time, v control.ControlValue) (control.ControlValue, bool) {
	if p.config.FireOn == FireOnPassthrough {
		return v, true
	}

	isPress := !v.IsZero()

	switch p.state {
	case stateIdle:
		if !isPress {
			return control.ControlValue{}, false
		}
		return p.onPress(now, v)
	case statePressObserved:
		if isPress {
			// Repeated press notifications while already held (e.g. note
			// re-triggered) carry no new information.
			return control.ControlValue{}, false
		}
		return p.onRelease(now, v)
	case stateReleaseArmed:
		if isPress {
			return control.ControlValue{}, false
		}
		return p.onRelease(now, v)
	}
	return control.ControlValue{}, false
}

func (p *Processor) onPress(now time.Time, v control.ControlValue) (control.ControlValue, bool) {
	p.pressedAt = now
	p.heldValue = v
	p.firedAfterMin = false

	switch p.config.FireOn {
	case FireOnPress:
		p.state = stateIdle
		return v, true
	case FireOnRelease:
		p.state = stateReleaseArmed
		return control.ControlValue{}, false
	case FireOnBoth:
		p.state = stateReleaseArmed
		return v, true
	case FireOnAfterMin:
		p.state = statePressObserved
		return control.ControlValue{}, false
	case FireOnTurbo:
		p.state = statePressObserved
		p.lastFire = now
		return v, true
	}
	p.state = stateIdle
	return control.ControlValue{}, false
}

func (p *Processor) onRelease(now time.Time, v control.ControlValue) (control.ControlValue, bool) {
	defer func() { p.state = stateIdle }()

	switch p.config.FireOn {
	case FireOnRelease, FireOnBoth:
		return v, true
	case FireOnAfterMin:
		// Release before the min duration elapsed cancels the pending
		// fire outright; release after it already fired is just the
		// latch closing, nothing more to emit.
		return control.ControlValue{}, false
	case FireOnTurbo:
		return control.ControlValue{}, false
	case FireOnPress:
		return control.ControlValue{}, false
	}
	return control.ControlValue{}, false
}

// Poll is called by the host on a cadence; it returns a deferred value
// that has become due (the min-duration fire, or the next turbo tick),
// or (_, false) if nothing is due.
func (p *Processor) Poll(now time.Time) (control.ControlValue, bool) {
	if p.state != statePressObserved {
		return control.ControlValue{}, false
	}

	held := now.Sub(p.pressedAt)
	if p.config.MaxPressDuration > 0 && held >= p.config.MaxPressDuration {
		p.state = stateIdle
		return control.ControlValue{}, false
	}

	switch p.config.FireOn {
	case FireOnAfterMin:
		if p.firedAfterMin {
			return control.ControlValue{}, false
		}
		if held >= p.config.MinPressDuration {
			p.firedAfterMin = true
			return p.heldValue, true
		}
	case FireOnTurbo:
		if p.config.TurboPeriod > 0 && now.Sub(p.lastFire) >= p.config.TurboPeriod {
			p.lastFire = now
			return p.heldValue, true
		}
	}
	return control.ControlValue{}, false
}
