package source

import (
	"testing"

	"github.com/schollz/ctlmap/internal/midi"
	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/stretchr/testify/assert"
)

func u8(v uint8) *uint8 { return &v }
func b(v bool) *bool    { return &v }

func TestControlChange7RangeDecode(t *testing.T) {
	s := NewControlChange7(u8(0), u8(7), CharacterRange)
	cv, ok := s.Decode(midi.Plain(midi.StatusControlChange, 0, 7, 64))
	assert.True(t, ok)
	assert.InDelta(t, 64.0/127.0, cv.Unit().Get(), primitives.BaseEpsilon)
}

func TestControlChange7WildcardChannel(t *testing.T) {
	s := NewControlChange7(nil, u8(7), CharacterRange)
	_, ok := s.Decode(midi.Plain(midi.StatusControlChange, 5, 7, 10))
	assert.True(t, ok)
}

func TestControlChange7FilterMismatch(t *testing.T) {
	s := NewControlChange7(u8(0), u8(7), CharacterRange)
	_, ok := s.Decode(midi.Plain(midi.StatusControlChange, 1, 7, 10))
	assert.False(t, ok)
}

// Scenario #9 from the literal scenario table: Encoder2 decode of CC 62 ->
// Relative(-2).
func TestEncoder2Scenario9(t *testing.T) {
	s := NewControlChange7(u8(0), u8(20), CharacterEncoder2)
	cv, ok := s.Decode(midi.Plain(midi.StatusControlChange, 0, 20, 62))
	assert.True(t, ok)
	assert.True(t, cv.IsRelative())
	assert.Equal(t, int32(-2), cv.Increment().Get())
}

func TestEncoderSchemesExhaustive(t *testing.T) {
	for v := 0; v <= 127; v++ {
		inc1, ok1 := primitives.DiscreteIncrementFromEncoder1(uint8(v))
		if v == 0 {
			assert.False(t, ok1)
		} else if v <= 63 {
			assert.True(t, ok1)
			assert.Equal(t, int32(v), inc1.Get())
		} else {
			assert.True(t, ok1)
			assert.Equal(t, int32(-(128 - v)), inc1.Get())
		}

		inc2, ok2 := primitives.DiscreteIncrementFromEncoder2(uint8(v))
		if v == 64 {
			assert.False(t, ok2)
		} else if v >= 65 {
			assert.True(t, ok2)
			assert.Equal(t, int32(v-64), inc2.Get())
		} else {
			assert.True(t, ok2)
			assert.Equal(t, int32(-(64 - v)), inc2.Get())
		}

		inc3, ok3 := primitives.DiscreteIncrementFromEncoder3(uint8(v))
		if v == 0 {
			assert.False(t, ok3)
		} else if v <= 64 {
			assert.True(t, ok3)
			assert.Equal(t, int32(v), inc3.Get())
		} else {
			assert.True(t, ok3)
			assert.Equal(t, int32(-(v - 64)), inc3.Get())
		}
	}
}

// Scenario #8: pitch-bend encode of 0.5 must produce the canonical hardware
// center 8192, not 8191 - the asymmetric centered-14-bit denormalization.
func TestPitchBendEncodeCenter(t *testing.T) {
	s := NewPitchBend(u8(0))
	event, ok := s.Encode(primitives.NewUnit(0.5))
	assert.True(t, ok)
	value := uint16(event.Data1()) | uint16(event.Data2())<<7
	assert.Equal(t, uint16(8192), value)
}

func TestPitchBendEncodeClampsAtMax(t *testing.T) {
	s := NewPitchBend(u8(0))
	event, _ := s.Encode(primitives.NewUnit(1.0))
	value := uint16(event.Data1()) | uint16(event.Data2())<<7
	assert.Equal(t, uint16(16383), value)
}

func TestPitchBendDecodeNotAsymmetric(t *testing.T) {
	s := NewPitchBend(u8(0))
	cv, ok := s.Decode(midi.Plain(midi.StatusPitchBend, 0, uint8(8192&0x7f), uint8((8192>>7)&0x7f)))
	assert.True(t, ok)
	assert.InDelta(t, 8192.0/16383.0, cv.Unit().Get(), primitives.BaseEpsilon)
}

func TestControlChange14BitFeedback(t *testing.T) {
	s := NewControlChange14Bit(u8(0), u8(20))
	event, ok := s.Encode(primitives.NewUnit(0.75))
	assert.True(t, ok)
	assert.Equal(t, uint16(12288), event.Value14())
}

func TestControlChange14BitConsumesMSBAndLSB(t *testing.T) {
	s := NewControlChange14Bit(u8(0), u8(20))
	assert.True(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 20, 1)))
	assert.True(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 52, 1)))
	assert.False(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 21, 1)))
}

func TestParameterNumberConsumesConstructionBytes(t *testing.T) {
	s := NewParameterNumber(u8(0), u8(1), b(true), b(true))
	assert.True(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 101, 0)))
	assert.True(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 6, 64)))
	assert.False(t, s.Consumes(midi.Plain(midi.StatusControlChange, 0, 7, 64)))
}

func TestEncodeFailsOnWildcardMandatoryField(t *testing.T) {
	s := NewNoteVelocity(nil, u8(60))
	_, ok := s.Encode(primitives.NewUnit(0.5))
	assert.False(t, ok)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	s := NewControlChange7(u8(0), u8(7), CharacterRange)
	original := primitives.NewUnit(0.5)
	event, ok := s.Encode(original)
	assert.True(t, ok)
	cv, ok := s.Decode(event)
	assert.True(t, ok)
	reencoded, ok := s.Encode(cv.Unit())
	assert.True(t, ok)
	assert.Equal(t, event, reencoded)
}

func TestClockTempoDecode(t *testing.T) {
	s := NewClockTempo()
	cv, ok := s.Decode(midi.Tempo(121))
	assert.True(t, ok)
	assert.InDelta(t, 120.0/960.0, cv.Unit().Get(), primitives.BaseEpsilon)
}

func TestClockTransportDecode(t *testing.T) {
	s := NewClockTransport(TransportStart)
	cv, ok := s.Decode(midi.Plain(midi.StatusClockStart, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, 1.0, cv.Unit().Get())
}
