package valuesequence

import (
	"testing"

	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/stretchr/testify/assert"
)

func TestParseSingleValue(t *testing.T) {
	seq, err := Parse("25", PercentIo{})
	assert.NoError(t, err)
	assert.Len(t, seq.Entries, 1)
	assert.Equal(t, EntrySingle, seq.Entries[0].Kind)
	assert.InDelta(t, 0.25, seq.Entries[0].From.Get(), primitives.BaseEpsilon)
}

// Scenario #10: "25-50, 75" with default step 0.01 (PercentIo) unpacks to
// 27 entries: 0.25..0.50 step 0.01 (26 entries) then 0.75.
func TestScenario10ValueSequence(t *testing.T) {
	seq, err := Parse("25-50, 75", PercentIo{})
	assert.NoError(t, err)
	assert.Len(t, seq.Entries, 2)

	values := seq.Unpack(0.01)
	assert.Len(t, values, 27)
	assert.InDelta(t, 0.25, values[0].Get(), 1e-6)
	assert.InDelta(t, 0.50, values[25].Get(), 1e-6)
	assert.InDelta(t, 0.75, values[26].Get(), 1e-6)
}

func TestExplicitStepOverridesDefault(t *testing.T) {
	seq, err := Parse("0-1(0.5)", NativeIo{})
	assert.NoError(t, err)
	values := seq.Unpack(1)
	assert.Len(t, values, 3)
	assert.InDelta(t, 0.0, values[0].Get(), primitives.BaseEpsilon)
	assert.InDelta(t, 0.5, values[1].Get(), primitives.BaseEpsilon)
	assert.InDelta(t, 1.0, values[2].Get(), primitives.BaseEpsilon)
}

func TestDescendingRange(t *testing.T) {
	seq, err := Parse("1-0", NativeIo{})
	assert.NoError(t, err)
	values := seq.Unpack(0.5)
	assert.Len(t, values, 3)
	assert.InDelta(t, 1.0, values[0].Get(), primitives.BaseEpsilon)
	assert.InDelta(t, 0.5, values[1].Get(), primitives.BaseEpsilon)
	assert.InDelta(t, 0.0, values[2].Get(), primitives.BaseEpsilon)
}

func TestZeroStepCollapsesToSingleElement(t *testing.T) {
	seq, err := Parse("0.2-0.8(0)", NativeIo{})
	assert.NoError(t, err)
	values := seq.Unpack(0.01)
	assert.Len(t, values, 1)
	assert.InDelta(t, 0.2, values[0].Get(), primitives.BaseEpsilon)
}

func TestPercentFormatRoundTrip(t *testing.T) {
	formatted := PercentIo{}.Format(primitives.NewUnit(0.25))
	assert.Equal(t, "25.00%", formatted)
	parsed, err := PercentIo{}.Parse(formatted)
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, parsed.Get(), primitives.BaseEpsilon)
}

func TestNativeFormatRoundTrip(t *testing.T) {
	formatted := NativeIo{}.Format(primitives.NewUnit(0.5))
	parsed, err := NativeIo{}.Parse(formatted)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, parsed.Get(), primitives.BaseEpsilon)
}

func TestInvalidValueReturnsError(t *testing.T) {
	_, err := Parse("abc", NativeIo{})
	assert.Error(t, err)
}
