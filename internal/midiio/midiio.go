// Package midiio is the only place in this module that touches real MIDI
// hardware. It plays the role the teacher's internal/midiconnector package
// played for note output: enumerate ports, open them, serialize sends
// behind a mutex - generalized from "send note on/off to one named synth
// device" to "decode/encode arbitrary short messages, 14-bit CC pairs,
// (N)RPN sequences and clock pulses into internal/midi.Event for the
// control-mapping core, and back out again".
//
// Everything in internal/mode, internal/source and internal/primitives is
// pure and gomidi-free; this package is the adapter the host (cmd/ctlmap)
// uses to wire that core to actual ports.
package midiio

import (
	"fmt"
	"log"
	"sync"
	"time"

	rawmidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/schollz/ctlmap/internal/midi"
)

// OutputNames lists the names of available MIDI output ports.
func OutputNames() []string {
	var names []string
	for _, out := range rawmidi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// InputNames lists the names of available MIDI input ports.
func InputNames() []string {
	var names []string
	for _, in := range rawmidi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

var (
	mutex     sync.Mutex
	openPorts = map[string]drivers.Out{}
)

// Port is a single opened MIDI output, serialized the way midiconnector
// guarded its devicesOpen map: many Mode/Source pairs can feed feedback
// toward the same physical port and must not interleave partial writes.
type Port struct {
	name string
}

// OpenOutput opens (or reuses an already-open) named output port.
func OpenOutput(name string) (*Port, error) {
	mutex.Lock()
	defer mutex.Unlock()
	if _, ok := openPorts[name]; ok {
		return &Port{name: name}, nil
	}
	out, err := rawmidi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("midiio: find out port %q: %w", name, err)
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("midiio: open out port %q: %w", name, err)
	}
	openPorts[name] = out
	return &Port{name: name}, nil
}

// CloseAll closes every opened output port. Mirrors midiconnector.Close,
// called once at process shutdown.
func CloseAll() {
	mutex.Lock()
	defer mutex.Unlock()
	for name, out := range openPorts {
		out.Close()
		delete(openPorts, name)
	}
}

// Send writes raw bytes to the port, serialized against every other
// sender on this port.
func (p *Port) Send(raw []byte) error {
	mutex.Lock()
	defer mutex.Unlock()
	out, ok := openPorts[p.name]
	if !ok {
		return fmt.Errorf("midiio: port %q is not open", p.name)
	}
	if err := out.Send(raw); err != nil {
		log.Printf("[MIDIIO] send error on %q: %v", p.name, err)
		return err
	}
	return nil
}

// SendEvent encodes a midi.Event produced by source.Encode into the raw
// short message(s) it expands into and sends them.
func SendEvent(p *Port, event midi.Event) error {
	for _, raw := range ExpandEvent(event) {
		if err := p.Send(raw); err != nil {
			return err
		}
	}
	return nil
}

// ExpandEvent turns a midi.Event - the boundary type internal/source
// encodes to - into the one or more raw short messages it represents.
// KindControlChange14Bit and KindParameterNumber expand into the MSB/LSB
// or RPN-select/data-entry sequence a real device expects; this is the
// inverse of the Assembler in assembler.go.
func ExpandEvent(event midi.Event) [][]byte {
	switch event.Kind() {
	case midi.KindPlain:
		return [][]byte{plainBytes(event)}
	case midi.KindControlChange14Bit:
		msb := event.MSBController()
		lsb := msb + 32
		value := event.Value14()
		return [][]byte{
			ccBytes(event.Channel(), msb, uint8(value>>7)),
			ccBytes(event.Channel(), lsb, uint8(value&0x7f)),
		}
	case midi.KindParameterNumber:
		return expandParameterNumber(event)
	}
	return nil
}

func plainBytes(event midi.Event) []byte {
	ch := event.Channel() & 0x0f
	switch event.Status() {
	case midi.StatusNoteOff:
		return []byte{0x80 | ch, event.Data1(), event.Data2()}
	case midi.StatusNoteOn:
		return []byte{0x90 | ch, event.Data1(), event.Data2()}
	case midi.StatusPolyKeyPressure:
		return []byte{0xA0 | ch, event.Data1(), event.Data2()}
	case midi.StatusControlChange:
		return []byte{0xB0 | ch, event.Data1(), event.Data2()}
	case midi.StatusProgramChange:
		return []byte{0xC0 | ch, event.Data1()}
	case midi.StatusChannelPressure:
		return []byte{0xD0 | ch, event.Data1()}
	case midi.StatusPitchBend:
		return []byte{0xE0 | ch, event.Data1(), event.Data2()}
	case midi.StatusClockStart:
		return []byte{0xFA}
	case midi.StatusClockContinue:
		return []byte{0xFB}
	case midi.StatusClockStop:
		return []byte{0xFC}
	}
	return nil
}

func ccBytes(channel, controller, value uint8) []byte {
	return []byte{0xB0 | (channel & 0x0f), controller, value & 0x7f}
}

const (
	ccRPNNumberMSB  uint8 = 101
	ccRPNNumberLSB  uint8 = 100
	ccNRPNNumberMSB uint8 = 99
	ccNRPNNumberLSB uint8 = 98
	ccDataEntryMSB  uint8 = 6
	ccDataEntryLSB  uint8 = 38
)

func expandParameterNumber(event midi.Event) [][]byte {
	ch := event.Channel()
	numberMSB := uint8((event.Number() >> 7) & 0x7f)
	numberLSB := uint8(event.Number() & 0x7f)
	selectMSB, selectLSB := ccNRPNNumberMSB, ccNRPNNumberLSB
	if event.IsRegistered() {
		selectMSB, selectLSB = ccRPNNumberMSB, ccRPNNumberLSB
	}

	out := [][]byte{
		ccBytes(ch, selectMSB, numberMSB),
		ccBytes(ch, selectLSB, numberLSB),
	}
	if event.Is14Bit() {
		out = append(out,
			ccBytes(ch, ccDataEntryMSB, uint8(event.Value14()>>7)),
			ccBytes(ch, ccDataEntryLSB, uint8(event.Value14()&0x7f)),
		)
	} else {
		out = append(out, ccBytes(ch, ccDataEntryMSB, uint8(event.Value14())))
	}
	return out
}

// Listen attaches a handler to a named input port; it is called once per
// raw short message with the bytes and the arrival time. The returned stop
// function releases the port. Raw bytes are handed to an Assembler before
// reaching source.Decode - this package owns MSB/LSB and (N)RPN
// reassembly, never the core.
func Listen(name string, handle func(raw []byte, at time.Time)) (stop func(), err error) {
	in, err := rawmidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("midiio: find in port %q: %w", name, err)
	}
	stopFn, err := rawmidi.ListenTo(in, func(raw []byte, milliseconds int32) {
		handle(raw, time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("midiio: listen on %q: %w", name, err)
	}
	return stopFn, nil
}

// DecodePlain converts a raw short message into a KindPlain midi.Event, or
// reports false for messages this boundary doesn't model (system
// exclusive, song position, active sensing, ...).
func DecodePlain(raw []byte) (midi.Event, bool) {
	if len(raw) == 0 {
		return midi.Event{}, false
	}
	status := raw[0]
	channel := status & 0x0f
	var data1, data2 uint8
	if len(raw) > 1 {
		data1 = raw[1]
	}
	if len(raw) > 2 {
		data2 = raw[2]
	}

	switch status & 0xf0 {
	case 0x80:
		return midi.Plain(midi.StatusNoteOff, channel, data1, data2), true
	case 0x90:
		return midi.Plain(midi.StatusNoteOn, channel, data1, data2), true
	case 0xA0:
		return midi.Plain(midi.StatusPolyKeyPressure, channel, data1, data2), true
	case 0xB0:
		return midi.Plain(midi.StatusControlChange, channel, data1, data2), true
	case 0xC0:
		return midi.Plain(midi.StatusProgramChange, channel, data1, 0), true
	case 0xD0:
		return midi.Plain(midi.StatusChannelPressure, channel, data1, 0), true
	case 0xE0:
		return midi.Plain(midi.StatusPitchBend, channel, data1, data2), true
	}
	switch status {
	case 0xFA:
		return midi.Plain(midi.StatusClockStart, 0, 0, 0), true
	case 0xFB:
		return midi.Plain(midi.StatusClockContinue, 0, 0, 0), true
	case 0xFC:
		return midi.Plain(midi.StatusClockStop, 0, 0, 0), true
	}
	return midi.Event{}, false
}

// IsClockPulse reports whether raw is a single 0xF8 MIDI clock tick (24 per
// quarter note) - the input ClockEstimator times to derive a tempo.
func IsClockPulse(raw []byte) bool {
	return len(raw) == 1 && raw[0] == 0xF8
}

