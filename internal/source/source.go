// Package source implements the decode/encode boundary between raw MIDI
// events and normalized control.ControlValue: classifying events into
// typed sources, extracting a normalized value, and (for feedback)
// synthesizing MIDI events from a normalized value.
package source

import (
	"math"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/midi"
	"github.com/schollz/ctlmap/internal/primitives"
)

// Kind discriminates the eleven MIDI source variants.
type Kind int

const (
	KindNoteVelocity Kind = iota
	KindNoteKeyNumber
	KindPolyphonicKeyPressure
	KindControlChange7
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindControlChange14Bit
	KindParameterNumber
	KindClockTempo
	KindClockTransport
)

// Character selects how a ControlChange7 source's payload byte is
// interpreted: as a plain range/switch value, or as one of the three
// relative-encoder schemes.
type Character int

const (
	CharacterRange Character = iota
	CharacterSwitch
	CharacterEncoder1
	CharacterEncoder2
	CharacterEncoder3
)

func (c Character) isEncoder() bool {
	return c == CharacterEncoder1 || c == CharacterEncoder2 || c == CharacterEncoder3
}

// TransportKind selects which MIDI realtime transport message a
// ClockTransport source reacts to.
type TransportKind int

const (
	TransportStart TransportKind = iota
	TransportContinue
	TransportStop
)

// RPN/NRPN construction controller numbers: MSB/LSB number select, MSB/LSB
// data entry, and the data increment/decrement pair.
const (
	ccRPNNumberMSB  uint8 = 101
	ccRPNNumberLSB  uint8 = 100
	ccNRPNNumberMSB uint8 = 99
	ccNRPNNumberLSB uint8 = 98
	ccDataEntryMSB  uint8 = 6
	ccDataEntryLSB  uint8 = 38
	ccDataIncrement uint8 = 96
	ccDataDecrement uint8 = 97
)

// Source is a tagged union describing what kind of MIDI event to react to
// and how to interpret its payload. Every variant carries optional
// channel/key/controller filters: nil means "accept any" (a wildcard).
type Source struct {
	kind Kind

	channel          *uint8
	keyNumber        *uint8
	controllerNumber *uint8
	character        Character
	is14Bit          *bool
	isRegistered     *bool
	transport        TransportKind
}

func NewNoteVelocity(channel, keyNumber *uint8) Source {
	return Source{kind: KindNoteVelocity, channel: channel, keyNumber: keyNumber}
}

func NewNoteKeyNumber(channel *uint8) Source {
	return Source{kind: KindNoteKeyNumber, channel: channel}
}

func NewPolyphonicKeyPressure(channel, keyNumber *uint8) Source {
	return Source{kind: KindPolyphonicKeyPressure, channel: channel, keyNumber: keyNumber}
}

func NewControlChange7(channel, controllerNumber *uint8, character Character) Source {
	return Source{kind: KindControlChange7, channel: channel, controllerNumber: controllerNumber, character: character}
}

func NewProgramChange(channel *uint8) Source {
	return Source{kind: KindProgramChange, channel: channel}
}

func NewChannelPressure(channel *uint8) Source {
	return Source{kind: KindChannelPressure, channel: channel}
}

func NewPitchBend(channel *uint8) Source {
	return Source{kind: KindPitchBend, channel: channel}
}

func NewControlChange14Bit(channel, msbControllerNumber *uint8) Source {
	return Source{kind: KindControlChange14Bit, channel: channel, controllerNumber: msbControllerNumber}
}

func NewParameterNumber(channel *uint8, number *uint8, is14Bit, isRegistered *bool) Source {
	return Source{kind: KindParameterNumber, channel: channel, controllerNumber: number, is14Bit: is14Bit, isRegistered: isRegistered}
}

func NewClockTempo() Source {
	return Source{kind: KindClockTempo}
}

func NewClockTransport(kind TransportKind) Source {
	return Source{kind: KindClockTransport, transport: kind}
}

func (s Source) Kind() Kind { return s.kind }

func matchesU8(filter *uint8, actual uint8) bool {
	return filter == nil || *filter == actual
}

func matchesBool(filter *bool, actual bool) bool {
	return filter == nil || *filter == actual
}

// Matches reports whether event is of the message type and filter values
// this source describes, without extracting a value.
func (s Source) Matches(event midi.Event) bool {
	switch s.kind {
	case KindNoteVelocity:
		return event.Kind() == midi.KindPlain &&
			(event.Status() == midi.StatusNoteOn || event.Status() == midi.StatusNoteOff) &&
			matchesU8(s.channel, event.Channel()) && matchesU8(s.keyNumber, event.Data1())
	case KindNoteKeyNumber:
		return event.Kind() == midi.KindPlain &&
			(event.Status() == midi.StatusNoteOn || event.Status() == midi.StatusNoteOff) &&
			matchesU8(s.channel, event.Channel())
	case KindPolyphonicKeyPressure:
		return event.Kind() == midi.KindPlain && event.Status() == midi.StatusPolyKeyPressure &&
			matchesU8(s.channel, event.Channel()) && matchesU8(s.keyNumber, event.Data1())
	case KindControlChange7:
		return event.Kind() == midi.KindPlain && event.Status() == midi.StatusControlChange &&
			matchesU8(s.channel, event.Channel()) && matchesU8(s.controllerNumber, event.Data1())
	case KindProgramChange:
		return event.Kind() == midi.KindPlain && event.Status() == midi.StatusProgramChange &&
			matchesU8(s.channel, event.Channel())
	case KindChannelPressure:
		return event.Kind() == midi.KindPlain && event.Status() == midi.StatusChannelPressure &&
			matchesU8(s.channel, event.Channel())
	case KindPitchBend:
		return event.Kind() == midi.KindPlain && event.Status() == midi.StatusPitchBend &&
			matchesU8(s.channel, event.Channel())
	case KindControlChange14Bit:
		return event.Kind() == midi.KindControlChange14Bit &&
			matchesU8(s.channel, event.Channel()) && matchesU8(s.controllerNumber, event.MSBController())
	case KindParameterNumber:
		if event.Kind() != midi.KindParameterNumber {
			return false
		}
		var number *uint8
		if s.controllerNumber != nil {
			n := *s.controllerNumber
			number = &n
		}
		return matchesU8(s.channel, event.Channel()) &&
			(number == nil || uint16(*number) == event.Number()) &&
			matchesBool(s.is14Bit, event.Is14Bit()) && matchesBool(s.isRegistered, event.IsRegistered())
	case KindClockTempo:
		return event.Kind() == midi.KindTempo
	case KindClockTransport:
		if event.Kind() != midi.KindPlain {
			return false
		}
		switch s.transport {
		case TransportStart:
			return event.Status() == midi.StatusClockStart
		case TransportContinue:
			return event.Status() == midi.StatusClockContinue
		case TransportStop:
			return event.Status() == midi.StatusClockStop
		}
	}
	return false
}

// Consumes reports whether event is part of a multi-message sequence this
// source is assembling, even though it isn't itself a complete match -
// used to suppress leakage of MSB/LSB or RPN/NRPN construction bytes to
// unrelated sources.
func (s Source) Consumes(event midi.Event) bool {
	if event.Kind() != midi.KindPlain || event.Status() != midi.StatusControlChange {
		return false
	}
	if !matchesU8(s.channel, event.Channel()) {
		return false
	}
	switch s.kind {
	case KindControlChange14Bit:
		if s.controllerNumber == nil {
			return false
		}
		msb := *s.controllerNumber
		lsb := msb + 32
		return event.Data1() == msb || event.Data1() == lsb
	case KindParameterNumber:
		switch event.Data1() {
		case ccRPNNumberMSB, ccRPNNumberLSB, ccNRPNNumberMSB, ccNRPNNumberLSB,
			ccDataEntryMSB, ccDataEntryLSB, ccDataIncrement, ccDataDecrement:
			return true
		}
		return false
	}
	return false
}

func normalize7Bit(v uint8) primitives.Unit {
	return primitives.NewUnit(float64(v) / 127.0)
}

func normalize14Bit(v uint16) primitives.Unit {
	return primitives.NewUnit(float64(v) / 16383.0)
}

// normalize14BitCentered divides by 16383 too - normalization of a centered
// (pitch-bend-like) source is NOT asymmetric; only denormalization is. See
// denormalize14BitCentered.
func normalize14BitCentered(v uint16) primitives.Unit {
	return normalize14Bit(v)
}

func denormalize7Bit(u primitives.Unit) uint8 {
	return uint8(roundHalfAwayFromZero(u.Get() * 127.0))
}

func denormalize14Bit(u primitives.Unit) uint16 {
	return uint16(roundHalfAwayFromZero(u.Get() * 16383.0))
}

// denormalize14BitCentered scales to 16384 then clamps to 16383: this
// intentional asymmetry shifts the perceived center one step up so that
// u=0.5 produces the canonical hardware center (8192 for pitch bend).
func denormalize14BitCentered(u primitives.Unit) uint16 {
	v := roundHalfAwayFromZero(u.Get() * 16384.0)
	if v > 16383 {
		v = 16383
	}
	return uint16(v)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}

// Decode extracts a control.ControlValue from event, or returns false if
// event doesn't match this source.
func (s Source) Decode(event midi.Event) (control.ControlValue, bool) {
	if !s.Matches(event) {
		return control.ControlValue{}, false
	}
	switch s.kind {
	case KindNoteVelocity:
		return control.AbsoluteContinuous(normalize7Bit(event.Data2())), true
	case KindNoteKeyNumber:
		return control.AbsoluteContinuous(normalize7Bit(event.Data1())), true
	case KindPolyphonicKeyPressure:
		return control.AbsoluteContinuous(normalize7Bit(event.Data2())), true
	case KindControlChange7:
		if s.character.isEncoder() {
			inc, ok := decodeEncoder(s.character, event.Data2())
			if !ok {
				return control.ControlValue{}, false
			}
			return control.Relative(inc), true
		}
		return control.AbsoluteContinuous(normalize7Bit(event.Data2())), true
	case KindProgramChange:
		return control.AbsoluteContinuous(normalize7Bit(event.Data1())), true
	case KindChannelPressure:
		return control.AbsoluteContinuous(normalize7Bit(event.Data1())), true
	case KindPitchBend:
		value := uint16(event.Data1()) | uint16(event.Data2())<<7
		return control.AbsoluteContinuous(normalize14BitCentered(value)), true
	case KindControlChange14Bit:
		return control.AbsoluteContinuous(normalize14Bit(event.Value14())), true
	case KindParameterNumber:
		if event.Is14Bit() {
			return control.AbsoluteContinuous(normalize14BitCentered(event.Value14())), true
		}
		return control.AbsoluteContinuous(normalize7Bit(uint8(event.Value14()))), true
	case KindClockTempo:
		bpm := event.BPM()
		unit := (bpm - 1) / 960
		return control.AbsoluteContinuous(primitives.NewUnit(unit)), true
	case KindClockTransport:
		return control.AbsoluteContinuous(primitives.NewUnit(primitives.UnitMax)), true
	}
	return control.ControlValue{}, false
}

func decodeEncoder(character Character, value uint8) (primitives.DiscreteIncrement, bool) {
	switch character {
	case CharacterEncoder1:
		return primitives.DiscreteIncrementFromEncoder1(value)
	case CharacterEncoder2:
		return primitives.DiscreteIncrementFromEncoder2(value)
	case CharacterEncoder3:
		return primitives.DiscreteIncrementFromEncoder3(value)
	}
	return primitives.DiscreteIncrement{}, false
}

// Encode synthesizes a MIDI event from a normalized unit value, or returns
// false if the source carries a wildcard in a field mandatory for
// synthesis (channel/key/controller/number/14-bit/registered).
func (s Source) Encode(u primitives.Unit) (midi.Event, bool) {
	switch s.kind {
	case KindNoteVelocity:
		if s.channel == nil || s.keyNumber == nil {
			return midi.Event{}, false
		}
		return midi.Plain(midi.StatusNoteOn, *s.channel, *s.keyNumber, denormalize7Bit(u)), true
	case KindNoteKeyNumber:
		return midi.Event{}, false
	case KindPolyphonicKeyPressure:
		if s.channel == nil || s.keyNumber == nil {
			return midi.Event{}, false
		}
		return midi.Plain(midi.StatusPolyKeyPressure, *s.channel, *s.keyNumber, denormalize7Bit(u)), true
	case KindControlChange7:
		if s.channel == nil || s.controllerNumber == nil || s.character.isEncoder() {
			return midi.Event{}, false
		}
		return midi.Plain(midi.StatusControlChange, *s.channel, *s.controllerNumber, denormalize7Bit(u)), true
	case KindProgramChange:
		if s.channel == nil {
			return midi.Event{}, false
		}
		return midi.Plain(midi.StatusProgramChange, *s.channel, denormalize7Bit(u), 0), true
	case KindChannelPressure:
		if s.channel == nil {
			return midi.Event{}, false
		}
		return midi.Plain(midi.StatusChannelPressure, *s.channel, denormalize7Bit(u), 0), true
	case KindPitchBend:
		if s.channel == nil {
			return midi.Event{}, false
		}
		value := denormalize14BitCentered(u)
		return midi.Plain(midi.StatusPitchBend, *s.channel, uint8(value&0x7f), uint8((value>>7)&0x7f)), true
	case KindControlChange14Bit:
		if s.channel == nil || s.controllerNumber == nil {
			return midi.Event{}, false
		}
		return midi.ControlChange14Bit(*s.channel, *s.controllerNumber, denormalize14BitCentered(u)), true
	case KindParameterNumber:
		if s.channel == nil || s.controllerNumber == nil || s.is14Bit == nil || s.isRegistered == nil {
			return midi.Event{}, false
		}
		var value uint16
		if *s.is14Bit {
			value = denormalize14BitCentered(u)
		} else {
			value = uint16(denormalize7Bit(u))
		}
		return midi.ParameterNumber(*s.channel, uint16(*s.controllerNumber), value, *s.is14Bit, *s.isRegistered), true
	case KindClockTempo, KindClockTransport:
		return midi.Event{}, false
	}
	return midi.Event{}, false
}
