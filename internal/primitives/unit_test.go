package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitClamps(t *testing.T) {
	assert.Equal(t, 0.0, NewUnit(-5).Get())
	assert.Equal(t, 1.0, NewUnit(5).Get())
	assert.InDelta(t, 0.5, NewUnit(0.5).Get(), BaseEpsilon)
}

func TestUnitInverse(t *testing.T) {
	assert.InDelta(t, 0.25, NewUnit(0.75).Inverse().Get(), BaseEpsilon)
}

func TestUnitNormalizeDenormalize(t *testing.T) {
	iv := NewInterval(NewUnit(0.2), NewUnit(0.8))
	normalized := NewUnit(0.5).Normalize(iv, PreferZero, BaseEpsilon)
	assert.InDelta(t, 0.5, normalized.Get(), BaseEpsilon)
	denormalized := normalized.Denormalize(iv)
	assert.InDelta(t, 0.5, denormalized.Get(), BaseEpsilon)
}

func TestUnitNormalizeCollapsedInterval(t *testing.T) {
	iv := NewInterval(NewUnit(0.5), NewUnit(0.5))
	assert.Equal(t, 0.0, NewUnit(0.5).Normalize(iv, PreferZero, BaseEpsilon).Get())
	assert.Equal(t, 1.0, NewUnit(0.5).Normalize(iv, PreferOne, BaseEpsilon).Get())
}

func TestUnitAddClampingInRange(t *testing.T) {
	iv := FullUnitInterval()
	result := NewUnit(0.9).AddClamping(NewUnitIncrement(0.5), iv, BaseEpsilon)
	assert.Equal(t, 1.0, result.Get())
}

func TestUnitAddClampingOutOfRangeReturnsNearestBound(t *testing.T) {
	iv := NewInterval(NewUnit(0.2), NewUnit(0.8))
	assert.Equal(t, 0.2, NewUnit(0.0).AddClamping(NewUnitIncrement(0.1), iv, BaseEpsilon).Get())
	assert.Equal(t, 0.8, NewUnit(1.0).AddClamping(NewUnitIncrement(-0.1), iv, BaseEpsilon).Get())
}

func TestUnitAddRotatingWraps(t *testing.T) {
	iv := NewInterval(NewUnit(0.0), NewUnit(1.0))
	result := NewUnit(0.9).AddRotating(NewUnitIncrement(0.3), iv, BaseEpsilon)
	assert.InDelta(t, 0.2, result.Get(), BaseEpsilon)

	result = NewUnit(0.1).AddRotating(NewUnitIncrement(-0.3), iv, BaseEpsilon)
	assert.InDelta(t, 0.8, result.Get(), BaseEpsilon)
}

func TestUnitSnapToGridRoundsHalfAwayFromZero(t *testing.T) {
	result := NewUnit(0.126).SnapToGridByIntervalSize(NewUnit(0.05))
	assert.InDelta(t, 0.15, result.Get(), 1e-9)
}

func TestUnitToIncrement(t *testing.T) {
	inc, ok := NewUnit(0.4).ToIncrement(-1)
	assert.True(t, ok)
	assert.InDelta(t, -0.4, inc.Get(), BaseEpsilon)

	_, ok = NewUnit(0).ToIncrement(1)
	assert.False(t, ok)
}
