package control

import (
	"testing"

	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/stretchr/testify/assert"
)

func TestAbsoluteContinuousUnit(t *testing.T) {
	cv := AbsoluteContinuous(primitives.NewUnit(0.5))
	assert.Equal(t, KindAbsoluteContinuous, cv.Kind())
	assert.InDelta(t, 0.5, cv.Unit().Get(), primitives.BaseEpsilon)
	assert.False(t, cv.IsRelative())
}

func TestAbsoluteDiscreteUnitProjection(t *testing.T) {
	cv := AbsoluteDiscrete(primitives.NewFraction(1, 4))
	assert.InDelta(t, 0.25, cv.Unit().Get(), primitives.BaseEpsilon)
}

func TestRelativePanicsOnUnit(t *testing.T) {
	cv := Relative(primitives.NewDiscreteIncrement(2))
	assert.True(t, cv.IsRelative())
	assert.Panics(t, func() { cv.Unit() })
}

func TestControlValueIsZero(t *testing.T) {
	assert.True(t, AbsoluteContinuous(primitives.NewUnit(0)).IsZero())
	assert.False(t, AbsoluteContinuous(primitives.NewUnit(0.1)).IsZero())
	assert.True(t, AbsoluteDiscrete(primitives.NewFraction(0, 4)).IsZero())
	assert.False(t, Relative(primitives.NewDiscreteIncrement(1)).IsZero())
}

func TestAbsoluteValueApproxEqual(t *testing.T) {
	a := Continuous(primitives.NewUnit(0.5))
	b := Continuous(primitives.NewUnit(0.5001))
	assert.True(t, a.ApproxEqual(b, primitives.FeedbackEpsilon))
	assert.False(t, a.ApproxEqual(b, primitives.BaseEpsilon))
}

func TestAbsoluteValueDiscreteProjection(t *testing.T) {
	a := Discrete(primitives.NewFraction(3, 4))
	assert.InDelta(t, 0.75, a.ToUnit().Get(), primitives.BaseEpsilon)
	assert.True(t, a.IsDiscrete())
}
