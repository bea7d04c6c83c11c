package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscreteIncrementPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { NewDiscreteIncrement(0) })
}

func TestDiscreteValueToIncrement(t *testing.T) {
	inc, ok := NewDiscreteValue(3).ToIncrement(-1)
	assert.True(t, ok)
	assert.Equal(t, int32(-3), inc.Get())

	_, ok = NewDiscreteValue(0).ToIncrement(1)
	assert.False(t, ok)
}

func TestDiscreteIncrementInverse(t *testing.T) {
	assert.Equal(t, int32(-5), NewDiscreteIncrement(5).Inverse().Get())
}

func TestEncoder1Scheme(t *testing.T) {
	inc, ok := DiscreteIncrementFromEncoder1(1)
	assert.True(t, ok)
	assert.Equal(t, int32(1), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder1(63)
	assert.True(t, ok)
	assert.Equal(t, int32(63), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder1(64)
	assert.True(t, ok)
	assert.Equal(t, int32(-64), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder1(127)
	assert.True(t, ok)
	assert.Equal(t, int32(-1), inc.Get())

	_, ok = DiscreteIncrementFromEncoder1(0)
	assert.False(t, ok)
}

func TestEncoder2Scheme(t *testing.T) {
	inc, ok := DiscreteIncrementFromEncoder2(65)
	assert.True(t, ok)
	assert.Equal(t, int32(1), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder2(63)
	assert.True(t, ok)
	assert.Equal(t, int32(-1), inc.Get())

	// CC 62 -> Relative(-2), a literal scenario carried from the Rust
	// source test suite.
	inc, ok = DiscreteIncrementFromEncoder2(62)
	assert.True(t, ok)
	assert.Equal(t, int32(-2), inc.Get())

	_, ok = DiscreteIncrementFromEncoder2(64)
	assert.False(t, ok)
}

func TestEncoder3Scheme(t *testing.T) {
	inc, ok := DiscreteIncrementFromEncoder3(1)
	assert.True(t, ok)
	assert.Equal(t, int32(1), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder3(64)
	assert.True(t, ok)
	assert.Equal(t, int32(64), inc.Get())

	inc, ok = DiscreteIncrementFromEncoder3(65)
	assert.True(t, ok)
	assert.Equal(t, int32(-1), inc.Get())

	_, ok = DiscreteIncrementFromEncoder3(0)
	assert.False(t, ok)
}

func TestFractionPanicsWhenActualExceedsMax(t *testing.T) {
	assert.Panics(t, func() { NewFraction(5, 4) })
}

func TestFractionToUnit(t *testing.T) {
	f := NewFraction(2, 4)
	assert.InDelta(t, 0.5, f.ToUnit().Get(), BaseEpsilon)

	zero := NewFraction(0, 0)
	assert.Equal(t, 0.0, zero.ToUnit().Get())
}

func TestIntervalPanicsWhenInverted(t *testing.T) {
	assert.Panics(t, func() { NewInterval(NewUnit(0.6), NewUnit(0.4)) })
}
