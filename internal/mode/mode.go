// Package mode implements the value-transformation pipeline that sits
// between a decoded control.ControlValue and a Target: source/target
// interval remapping, reverse, rounding, jump restriction with takeover,
// absolute/relative/toggle sub-modes, step scaling with throttling, and
// the feedback path back to an AbsoluteValue.
package mode

import (
	"log"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/pressduration"
	"github.com/schollz/ctlmap/internal/primitives"
)

// AbsoluteSubMode selects which of the three absolute interpretations
// Control uses for incoming AbsoluteContinuous/AbsoluteDiscrete values.
type AbsoluteSubMode int

const (
	AbsoluteNormal AbsoluteSubMode = iota
	AbsoluteIncrementalButtons
	AbsoluteToggleButtons
)

// OutOfRangeBehavior selects what happens when an incoming control value
// falls outside SourceInterval.
type OutOfRangeBehavior int

const (
	OutOfRangeMinOrMax OutOfRangeBehavior = iota
	OutOfRangeMin
	OutOfRangeIgnore
)

// TakeoverMode selects the strategy used when a jump from the current
// target value to the freshly computed one exceeds JumpInterval.Max.
type TakeoverMode int

const (
	TakeoverPickup TakeoverMode = iota
	TakeoverParallel
	TakeoverLongTimeNoSee
	TakeoverCatchUp
)

// ButtonUsage filters which edge of an absolute button value is honored.
type ButtonUsage int

const (
	ButtonBoth ButtonUsage = iota
	ButtonPressOnly
	ButtonReleaseOnly
)

// EncoderUsage filters which direction of a relative increment is honored.
type EncoderUsage int

const (
	EncoderBoth EncoderUsage = iota
	EncoderIncrementOnly
	EncoderDecrementOnly
)

// StepCountInterval is the discrete-increment interval used to scale
// incremental-button presses and relative increments. Unlike
// Interval[DiscreteValue], its bounds may be negative: a negative factor N
// means "fire once every N events in that direction" (throttling), per
// §4.4.4.
type StepCountInterval struct {
	Min int
	Max int
}

// DefaultStepCountInterval is [+1,+1]; defaults are consequential and must
// not be "helpfully" widened.
var DefaultStepCountInterval = StepCountInterval{Min: 1, Max: 1}

// clamp restricts v into [Min,Max].
func (s StepCountInterval) clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Config is the full Mode settings record (§4.4).
type Config struct {
	SourceInterval primitives.Interval[primitives.Unit]
	TargetInterval primitives.Interval[primitives.Unit]

	OutOfRangeBehavior OutOfRangeBehavior
	Reverse            bool
	RoundTargetValue   bool

	JumpInterval primitives.Interval[primitives.Unit]
	TakeoverMode TakeoverMode

	AbsoluteMode AbsoluteSubMode

	StepCountInterval StepCountInterval
	StepSizeInterval  primitives.Interval[primitives.Unit]

	Rotate bool

	ButtonUsage  ButtonUsage
	EncoderUsage EncoderUsage

	UseDiscreteProcessing     bool
	ConvertRelativeToAbsolute bool

	// DiscreteTargetValueInterval bounds a discrete target's Fraction.Actual
	// during incremental-button/relative processing (§4.4.4, §4.4.6).
	DiscreteTargetValueInterval primitives.Interval[primitives.DiscreteValue]

	ControlTransformation  Transformation
	FeedbackTransformation Transformation

	PressDuration pressduration.Config
}

// DefaultConfig returns the Mode defaults named in spec.md §9: full
// source/target/jump intervals, step size 0.01/0.01, step count [+1,+1].
func DefaultConfig() Config {
	return Config{
		SourceInterval:              primitives.FullUnitInterval(),
		TargetInterval:              primitives.FullUnitInterval(),
		JumpInterval:                primitives.FullUnitInterval(),
		StepSizeInterval:            primitives.NewInterval(primitives.NewUnit(0.01), primitives.NewUnit(0.01)),
		StepCountInterval:           DefaultStepCountInterval,
		DiscreteTargetValueInterval: primitives.NewInterval(primitives.NewDiscreteValue(0), primitives.NewDiscreteValue(1<<20)),
	}
}

// Mode is the stateful pipeline. Construct with New; all mutable state is
// localized here, and the caller must serialize Control/Feedback/Poll calls
// per Mode (§5) - Mode itself does not synchronize.
type Mode struct {
	config Config

	incrementCounter             int
	throttleDirection            int
	currentAbsoluteValue         primitives.Unit
	previousAbsoluteControlValue *primitives.Unit
	pressDuration                *pressduration.Processor
}

func New(config Config) *Mode {
	return &Mode{
		config:        config,
		pressDuration: pressduration.NewProcessor(config.PressDuration),
	}
}

// ControlOptions carries the per-call options in §6's "Control options".
type ControlOptions struct {
	EnforceRotate bool
}

// FeedbackOptions carries §6's "Feedback options".
type FeedbackOptions struct {
	SourceIsVirtual        bool
	MaxDiscreteSourceValue *uint32
}

// ResultKind discriminates a ControlResult.
type ResultKind int

const (
	ResultHitTarget ResultKind = iota
	ResultLeaveTargetUntouched
)

// ControlResult is ModeControlResult<ControlValue>: either the pipeline
// produced a value the host should apply (HitTarget) or it computed one
// but it wouldn't change the target, so the host should skip the I/O
// (LeaveTargetUntouched).
type ControlResult struct {
	Kind  ResultKind
	Value control.ControlValue
}

func hitTarget(v control.ControlValue) ControlResult {
	return ControlResult{Kind: ResultHitTarget, Value: v}
}

func leaveTargetUntouched(v control.ControlValue) ControlResult {
	return ControlResult{Kind: ResultLeaveTargetUntouched, Value: v}
}

func logf(format string, args ...any) {
	log.Printf("[MODE] "+format, args...)
}
