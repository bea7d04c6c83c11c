package midiio

import (
	"github.com/schollz/ctlmap/internal/midi"
)

// Assembler turns a stream of raw short MIDI messages for one input port
// into the boundary midi.Event values internal/source.Decode consumes:
// plain short messages pass straight through, but 14-bit CC pairs and
// (N)RPN sequences must be accumulated across several CC messages first.
// internal/source.Consumes exists precisely so a host like this one knows
// which raw CCs belong to an in-progress multi-message value rather than
// leaking them to an unrelated plain ControlChange7 source; Assembler is
// where that accumulation actually happens, per channel.
type Assembler struct {
	channels [16]channelState
}

type channelState struct {
	pending14Bit map[uint8]uint8 // controller MSB number -> last MSB value seen

	rpnPending      bool
	rpnIsRegistered bool
	rpnNumber       uint16
	rpnNumberPhase  int // 0 = waiting for number MSB, 1 = have MSB waiting for LSB, 2 = number complete
	rpnDataMSB      uint8
	rpnHasDataMSB   bool
}

func NewAssembler() *Assembler {
	a := &Assembler{}
	for i := range a.channels {
		a.channels[i].pending14Bit = map[uint8]uint8{}
	}
	return a
}

// Feed processes one raw short message and returns the midi.Event(s) it
// completes, if any. A lone CC that's part of an in-progress 14-bit or
// (N)RPN sequence yields nothing until its pair/sequence completes.
func (a *Assembler) Feed(raw []byte) []midi.Event {
	event, ok := DecodePlain(raw)
	if !ok {
		return nil
	}
	if event.Kind() != midi.KindPlain || event.Status() != midi.StatusControlChange {
		return []midi.Event{event}
	}

	ch := event.Channel() & 0x0f
	state := &a.channels[ch]
	controller := event.Data1()
	value := event.Data2()

	switch controller {
	case ccRPNNumberMSB, ccNRPNNumberMSB:
		state.rpnIsRegistered = controller == ccRPNNumberMSB
		state.rpnNumber = uint16(value) << 7
		state.rpnNumberPhase = 1
		state.rpnPending = false
		return nil
	case ccRPNNumberLSB, ccNRPNNumberLSB:
		if state.rpnNumberPhase == 1 {
			state.rpnNumber |= uint16(value)
			state.rpnNumberPhase = 2
			state.rpnPending = true
		}
		return nil
	case ccDataEntryMSB:
		if !state.rpnPending {
			break
		}
		if state.rpnHasDataMSB {
			out := parameterNumberEvent(ch, *state, uint16(state.rpnDataMSB)<<7, false)
			state.rpnDataMSB = value
			state.rpnHasDataMSB = true
			return []midi.Event{out}
		}
		state.rpnDataMSB = value
		state.rpnHasDataMSB = true
		return nil
	case ccDataEntryLSB:
		if !state.rpnPending || !state.rpnHasDataMSB {
			break
		}
		value14 := uint16(state.rpnDataMSB)<<7 | uint16(value)
		state.rpnHasDataMSB = false
		return []midi.Event{parameterNumberEvent(ch, *state, value14, true)}
	}

	// Not an RPN/NRPN construction byte: if an MSB-only data entry was
	// pending on this channel, it was a genuine 7-bit (N)RPN write - flush
	// it before handling the new controller.
	var flushed []midi.Event
	if state.rpnHasDataMSB {
		flushed = append(flushed, parameterNumberEvent(ch, *state, uint16(state.rpnDataMSB)<<7, false))
		state.rpnHasDataMSB = false
	}

	if lsb, isLSB := fourteenBitLSB(controller); isLSB {
		msb, ok := state.pending14Bit[lsb-32]
		if !ok {
			return flushed
		}
		delete(state.pending14Bit, lsb-32)
		value14 := uint16(msb)<<7 | uint16(value)
		return append(flushed, midi.ControlChange14Bit(ch, lsb-32, value14))
	}

	// A bare CC might be the MSB half of a 14-bit pair about to follow, or
	// simply a 7-bit control - we can't know which until (if ever) the LSB
	// controller (n+32) arrives, so record it as a candidate MSB and also
	// surface it immediately as a plain 7-bit event. If the LSB later
	// arrives, the combined 14-bit event supersedes it.
	if controller <= 95 {
		state.pending14Bit[controller] = value
	}
	return append(flushed, event)
}

func fourteenBitLSB(controller uint8) (msb uint8, ok bool) {
	if controller >= 32 && controller <= 63 {
		return controller, true
	}
	return 0, false
}

func parameterNumberEvent(channel uint8, state channelState, value14 uint16, is14Bit bool) midi.Event {
	return midi.ParameterNumber(channel, state.rpnNumber, value14, is14Bit, state.rpnIsRegistered)
}
