package midiio

import (
	"time"

	"github.com/schollz/ctlmap/internal/midi"
)

// pulsesPerQuarterNote is fixed by the MIDI clock spec: 24 ticks per
// quarter note, regardless of tempo.
const pulsesPerQuarterNote = 24

// ClockEstimator derives a running BPM estimate from MIDI clock pulses
// (0xF8), the way a real sequencer's clock-in would, and emits a
// midi.Tempo event the host can hand to source.Decode for a ClockTempo
// source - the spec leaves tempo extraction to "the caller", and this is
// that caller.
type ClockEstimator struct {
	lastPulse time.Time
	haveLast  bool
	smoothed  float64 // seconds per pulse, exponentially smoothed
}

func NewClockEstimator() *ClockEstimator {
	return &ClockEstimator{}
}

// Pulse records one clock tick arriving at `at` and returns the resulting
// tempo event once at least one prior pulse is known to derive an
// interval from.
func (c *ClockEstimator) Pulse(at time.Time) (midi.Event, bool) {
	if !c.haveLast {
		c.lastPulse = at
		c.haveLast = true
		return midi.Event{}, false
	}
	interval := at.Sub(c.lastPulse).Seconds()
	c.lastPulse = at
	if interval <= 0 {
		return midi.Event{}, false
	}

	const smoothing = 0.2
	if c.smoothed == 0 {
		c.smoothed = interval
	} else {
		c.smoothed = c.smoothed + smoothing*(interval-c.smoothed)
	}

	secondsPerQuarter := c.smoothed * pulsesPerQuarterNote
	if secondsPerQuarter <= 0 {
		return midi.Event{}, false
	}
	bpm := 60.0 / secondsPerQuarter
	return midi.Tempo(bpm), true
}

// Reset drops the estimator's history, e.g. on a transport Stop, so the
// next run of pulses doesn't average across the gap.
func (c *ClockEstimator) Reset() {
	c.haveLast = false
	c.smoothed = 0
}
