package mode

import (
	"testing"
	"time"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/stretchr/testify/assert"
)

type fakeTarget struct {
	value control.AbsoluteValue
	has   bool
	ct    ControlType
}

func (f *fakeTarget) CurrentValue() (control.AbsoluteValue, bool) { return f.value, f.has }
func (f *fakeTarget) ControlType() ControlType                    { return f.ct }

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Scenario 1.
func TestScenario1DefaultHitsTarget(t *testing.T) {
	m := New(DefaultConfig())
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.377)), has: true}
	result, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.5)), target, ControlOptions{})
	assert.True(t, ok)
	assert.Equal(t, ResultHitTarget, result.Kind)
	assert.InDelta(t, 0.5, result.Value.Unit().Get(), primitives.BaseEpsilon)
}

// Scenario 2.
func TestScenario2IgnoreOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceInterval = primitives.NewInterval(primitives.NewUnit(0.2), primitives.NewUnit(0.6))
	cfg.OutOfRangeBehavior = OutOfRangeIgnore
	m := New(cfg)
	target := &fakeTarget{}
	_, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.1)), target, ControlOptions{})
	assert.False(t, ok)
}

// Scenario 3.
func TestScenario3TargetIntervalClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetInterval = primitives.NewInterval(primitives.NewUnit(0.2), primitives.NewUnit(0.6))
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.3)), has: true}
	result, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(1.0)), target, ControlOptions{})
	assert.True(t, ok)
	assert.Equal(t, ResultHitTarget, result.Kind)
	assert.InDelta(t, 0.6, result.Value.Unit().Get(), primitives.BaseEpsilon)
}

// Scenario 4.
func TestScenario4LongTimeNoSeeTakeover(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpInterval = primitives.NewInterval(primitives.NewUnit(0), primitives.NewUnit(0.2))
	cfg.TakeoverMode = TakeoverLongTimeNoSee
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.5)), has: true}
	result, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.0)), target, ControlOptions{})
	assert.True(t, ok)
	assert.Equal(t, ResultHitTarget, result.Kind)
	assert.InDelta(t, 0.4, result.Value.Unit().Get(), primitives.BaseEpsilon)
}

// Scenario 5.
func TestScenario5IncrementalButtons(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AbsoluteMode = AbsoluteIncrementalButtons
	cfg.StepCountInterval = StepCountInterval{Min: 1, Max: 1}
	cfg.StepSizeInterval = primitives.NewInterval(primitives.NewUnit(0.01), primitives.NewUnit(0.01))
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.0)), has: true}
	result, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.5)), target, ControlOptions{})
	assert.True(t, ok)
	assert.Equal(t, ResultHitTarget, result.Kind)
	assert.InDelta(t, 0.01, result.Value.Unit().Get(), primitives.BaseEpsilon)
}

// Scenario 6.
func TestScenario6ToggleButtons(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AbsoluteMode = AbsoluteToggleButtons
	cfg.TargetInterval = primitives.NewInterval(primitives.NewUnit(0.3), primitives.NewUnit(0.7))
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.4)), has: true}
	result, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.1)), target, ControlOptions{})
	assert.True(t, ok)
	assert.Equal(t, ResultHitTarget, result.Kind)
	assert.InDelta(t, 0.7, result.Value.Unit().Get(), primitives.BaseEpsilon)
}

// Scenario 7.
func TestScenario7RelativeThrottle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepCountInterval = StepCountInterval{Min: -2, Max: -2}
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.0)), has: true}

	cv := control.Relative(primitives.NewDiscreteIncrement(1))

	result1, ok1 := m.Control(now, cv, target, ControlOptions{})
	assert.True(t, ok1)
	assert.Equal(t, ResultHitTarget, result1.Kind)
	assert.InDelta(t, 0.01, result1.Value.Unit().Get(), primitives.BaseEpsilon)

	_, ok2 := m.Control(now, cv, target, ControlOptions{})
	assert.False(t, ok2)

	result3, ok3 := m.Control(now, cv, target, ControlOptions{})
	assert.True(t, ok3)
	assert.Equal(t, ResultHitTarget, result3.Kind)
	assert.InDelta(t, 0.01, result3.Value.Unit().Get(), primitives.BaseEpsilon)
}

func TestFeedbackOnCollapsedTargetIntervalYieldsSourceMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetInterval = primitives.NewInterval(primitives.NewUnit(0.5), primitives.NewUnit(0.5))
	m := New(cfg)

	result, ok := m.Feedback(control.Continuous(primitives.NewUnit(0.5)), FeedbackOptions{})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, result.ToUnit().Get(), primitives.FeedbackEpsilon)
}

func TestFeedbackOnCollapsedTargetIntervalYieldsSourceMinOtherwise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetInterval = primitives.NewInterval(primitives.NewUnit(0.5), primitives.NewUnit(0.5))
	m := New(cfg)

	result, ok := m.Feedback(control.Continuous(primitives.NewUnit(0.1)), FeedbackOptions{})
	assert.True(t, ok)
	assert.InDelta(t, 0.0, result.ToUnit().Get(), primitives.FeedbackEpsilon)
}

func TestCheckApplicabilityNeverPanics(t *testing.T) {
	characters := []DetailedSourceCharacter{
		SourceMomentaryVelocitySensitiveButton, SourceMomentaryOnOffButton,
		SourcePressOnlyButton, SourceRangeControl, SourceRelativeControl,
	}
	params := []ModeParameter{
		ParamSourceMinMax, ParamTargetMinMax, ParamReverse, ParamOutOfRangeBehavior,
		ParamJumpMinMax, ParamTakeoverMode, ParamControlTransformation, ParamFeedbackTransformation,
		ParamStepSizeMinMax, ParamStepCountMinMax, ParamRelativeFilter, ParamRotate,
		ParamFireMode, ParamButtonFilter,
	}
	assert.NotPanics(t, func() {
		for _, p := range params {
			for _, c := range characters {
				for _, feedback := range []bool{true, false} {
					CheckApplicability(ApplicabilityInput{Parameter: p, SourceCharacter: c, IsFeedback: feedback})
				}
			}
		}
	})
}

func TestJumpIntervalDeadband(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpInterval = primitives.NewInterval(primitives.NewUnit(0.05), primitives.NewUnit(1.0))
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.5)), has: true}
	_, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.51)), target, ControlOptions{})
	assert.False(t, ok)
}

func TestPickupTakeoverDropsOnBigJump(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpInterval = primitives.NewInterval(primitives.NewUnit(0), primitives.NewUnit(0.1))
	cfg.TakeoverMode = TakeoverPickup
	m := New(cfg)
	target := &fakeTarget{value: control.Continuous(primitives.NewUnit(0.5)), has: true}
	_, ok := m.Control(now, control.AbsoluteContinuous(primitives.NewUnit(0.0)), target, ControlOptions{})
	assert.False(t, ok)
}
