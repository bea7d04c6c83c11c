package midiio

import (
	"log"
	"sync"
	"time"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/midi"
	"github.com/schollz/ctlmap/internal/mode"
	"github.com/schollz/ctlmap/internal/source"
)

// Applier is how a Binding hands a mode.HitTarget result to the host
// application that actually owns the target parameter. The control core
// never mutates application state itself (§6) - it only computes what
// should happen.
type Applier interface {
	Apply(control.ControlValue) error
}

// Binding pairs one Source/Mode pair with the Target it controls and,
// optionally, the port and source feedback should be encoded through.
// Router owns no hardware itself; it's driven from raw bytes already
// pulled off a Port via Listen.
type Binding struct {
	Name    string
	Source  source.Source
	Mode    *mode.Mode
	Target  mode.Target
	Applier Applier

	FeedbackPort   *Port
	FeedbackSource source.Source
	FeedbackOpts   mode.FeedbackOptions
}

// Router fans a single input port's decoded events out to every Binding
// whose Source matches or is mid-way through consuming a multi-message
// sequence. One Router serializes one input port's worth of Bindings,
// matching the single-threaded-cooperative model in §5: nothing here
// spawns a goroutine per event, Listen's callback drives everything
// in-line.
type Router struct {
	mu        sync.Mutex
	bindings  []*Binding
	assembler *Assembler
	clock     *ClockEstimator
}

func NewRouter() *Router {
	return &Router{assembler: NewAssembler(), clock: NewClockEstimator()}
}

func (r *Router) Add(b *Binding) { r.bindings = append(r.bindings, b) }

// HandleRaw feeds one raw short message (as delivered by Listen) through
// 14-bit/(N)RPN assembly and clock tempo estimation, then dispatches every
// resulting boundary event to the bindings whose Source matches it.
func (r *Router) HandleRaw(raw []byte, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if IsClockPulse(raw) {
		if event, ok := r.clock.Pulse(at); ok {
			r.dispatch(event, at)
		}
		return
	}
	for _, event := range r.assembler.Feed(raw) {
		r.dispatch(event, at)
	}
}

func (r *Router) dispatch(event midi.Event, at time.Time) {
	for _, b := range r.bindings {
		if !b.Source.Matches(event) {
			continue
		}
		cv, ok := b.Source.Decode(event)
		if !ok {
			continue
		}
		result, fired := b.Mode.Control(at, cv, b.Target, mode.ControlOptions{})
		if !fired {
			continue
		}
		r.deliver(b, result, at)
	}
}

// PollAll calls Poll on every binding's Mode, applying any due value -
// the cadence-driven half of §4.4's third operation. The host ticks this
// on whatever schedule its UI/engine loop already runs at; there is no
// internal timer.
func (r *Router) PollAll(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bindings {
		result, ok := b.Mode.Poll(now, b.Target)
		if !ok {
			continue
		}
		r.deliver(b, result, now)
	}
}

func (r *Router) deliver(b *Binding, result mode.ControlResult, now time.Time) {
	if result.Kind != mode.ResultHitTarget {
		return
	}
	if b.Applier == nil {
		return
	}
	if err := b.Applier.Apply(result.Value); err != nil {
		log.Printf("[MIDIIO] binding %q: apply failed: %v", b.Name, err)
		return
	}
	if err := r.SendFeedback(b); err != nil {
		log.Printf("[MIDIIO] binding %q: feedback failed: %v", b.Name, err)
	}
}

// SendFeedback runs a binding's current target value through its Mode's
// feedback pipeline and, if a feedback source/port are configured,
// encodes and sends the resulting MIDI event.
func (r *Router) SendFeedback(b *Binding) error {
	if b.FeedbackPort == nil {
		return nil
	}
	current, ok := b.Target.CurrentValue()
	if !ok {
		return nil
	}
	value, ok := b.Mode.Feedback(current, b.FeedbackOpts)
	if !ok {
		return nil
	}
	event, ok := b.FeedbackSource.Encode(value.ToUnit())
	if !ok {
		return nil
	}
	return SendEvent(b.FeedbackPort, event)
}
