// Package midi defines the boundary event type the control core decodes
// from and encodes to. It does not touch hardware - internal/midiio owns
// that, assembling these typed events from (and expanding them back into)
// raw short messages via gomidi.
package midi

// EventKind discriminates the payload an Event carries.
type EventKind int

const (
	// KindPlain wraps a raw 3-byte short message: status byte plus up to
	// two data bytes (note on/off, CC, program change, channel pressure,
	// pitch bend, polyphonic key pressure).
	KindPlain EventKind = iota
	// KindControlChange14Bit is a caller-assembled MSB/LSB CC pair.
	KindControlChange14Bit
	// KindParameterNumber is a caller-assembled (N)RPN sequence.
	KindParameterNumber
	// KindTempo is a caller-extracted MIDI clock tempo estimate.
	KindTempo
)

// StatusKind is the short-message family for KindPlain events.
type StatusKind int

const (
	StatusNoteOff StatusKind = iota
	StatusNoteOn
	StatusPolyKeyPressure
	StatusControlChange
	StatusProgramChange
	StatusChannelPressure
	StatusPitchBend
	StatusClockStart
	StatusClockContinue
	StatusClockStop
)

// Event is the tagged union passed to source.Decode and returned by
// source.Encode.
type Event struct {
	kind EventKind

	// Plain
	status  StatusKind
	channel uint8
	data1   uint8
	data2   uint8

	// ControlChange14Bit / ParameterNumber
	msbController uint8
	number        uint16
	value14       uint16
	is14Bit       bool
	isRegistered  bool

	// Tempo
	bpm float64
}

func (e Event) Kind() EventKind { return e.kind }

// Plain constructs a short-message event. data2 is ignored for
// ProgramChange/ChannelPressure (one data byte) and clock status events
// (zero data bytes).
func Plain(status StatusKind, channel, data1, data2 uint8) Event {
	return Event{kind: KindPlain, status: status, channel: channel, data1: data1, data2: data2}
}

func (e Event) Status() StatusKind { return e.status }
func (e Event) Channel() uint8     { return e.channel }
func (e Event) Data1() uint8       { return e.data1 }
func (e Event) Data2() uint8       { return e.data2 }

// ControlChange14Bit constructs a caller-assembled 14-bit CC pair event.
func ControlChange14Bit(channel, msbController uint8, value uint16) Event {
	return Event{kind: KindControlChange14Bit, channel: channel, msbController: msbController, value14: value}
}

func (e Event) MSBController() uint8 { return e.msbController }
func (e Event) Value14() uint16      { return e.value14 }

// ParameterNumber constructs a caller-assembled (N)RPN event.
func ParameterNumber(channel uint8, number, value uint16, is14Bit, isRegistered bool) Event {
	return Event{
		kind:         KindParameterNumber,
		channel:      channel,
		number:       number,
		value14:      value,
		is14Bit:      is14Bit,
		isRegistered: isRegistered,
	}
}

func (e Event) Number() uint16    { return e.number }
func (e Event) Is14Bit() bool     { return e.is14Bit }
func (e Event) IsRegistered() bool { return e.isRegistered }

// Tempo constructs a caller-extracted MIDI clock tempo event.
func Tempo(bpm float64) Event {
	return Event{kind: KindTempo, bpm: bpm}
}

func (e Event) BPM() float64 { return e.bpm }
