// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// DecoderState identifies the frame decoder's position in a transaction.
type DecoderState int

// Decoder states. Exactly one frame is in flight at a time.
const (
	StateIdle DecoderState = iota
	StateReceiving
	StateValidating
	StateUpdating
)

func (s DecoderState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateReceiving:
		return "RECEIVING"
	case StateValidating:
		return "VALIDATING"
	case StateUpdating:
		return "UPDATING"
	default:
		return "UNKNOWN"
	}
}

// EventType classifies a decoder outcome.
type EventType int

// Decoder outcomes. Rejections and ignored reads are silent on the wire;
// the protocol has no error channel back to the controller.
const (
	EventCommit        EventType = iota // valid write stored
	EventRejectAddress                  // address above MaxAddress, frame dropped
	EventReadIgnored                    // read flag clear, no effect
	EventRestart                        // frame start while still receiving
)

func (t EventType) String() string {
	switch t {
	case EventCommit:
		return "commit"
	case EventRejectAddress:
		return "reject_address"
	case EventReadIgnored:
		return "read_ignored"
	case EventRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Event reports one decoder outcome together with the tick it completed
// on and the frame that produced it.
type Event struct {
	Type  EventType
	Tick  uint64
	Frame Frame
}

// decoder is the bit-serial frame state machine. The assembly buffer is
// a 16-bit word filled MSB first under an explicit descending cursor.
type decoder struct {
	state  DecoderState
	shift  uint16
	cursor int
}

func (d *decoder) reset() {
	d.state = StateIdle
	d.shift = 0
	d.cursor = 0
}

// begin arms the decoder for a fresh frame.
func (d *decoder) begin() {
	d.state = StateReceiving
	d.shift = 0
	d.cursor = FrameBits - 1
}

// tick advances the state machine by one local clock cycle. It consumes
// this tick's edge pulses plus the synchronized data-line level, commits
// into regs during the update phase, and returns any completed outcome.
func (d *decoder) tick(edges edgePulses, dataBit bool, tickNo uint64, regs *RegisterFile) (Event, bool) {
	switch d.state {
	case StateIdle:
		if edges.frameStart {
			d.begin()
		}

	case StateReceiving:
		if edges.frameStart {
			// The controller restarted the transaction; the partial
			// frame is abandoned. A withdrawn chip select alone does
			// not abort (see the frameEnd note below).
			frame := ParseFrame(d.shift)
			d.begin()
			return Event{Type: EventRestart, Tick: tickNo, Frame: frame}, true
		}
		if edges.samplePoint {
			if dataBit {
				d.shift |= 1 << d.cursor
			}
			if d.cursor == 0 {
				d.state = StateValidating
			} else {
				d.cursor--
			}
		}
		// edges.frameEnd is deliberately not handled here: the
		// reference design has no abort path out of RECEIVING, so a
		// truncated frame waits for its remaining bits or for the next
		// frame start.

	case StateValidating:
		if ParseFrame(d.shift).Address > MaxAddress {
			d.state = StateIdle
			return Event{Type: EventRejectAddress, Tick: tickNo, Frame: ParseFrame(d.shift)}, true
		}
		d.state = StateUpdating

	case StateUpdating:
		frame := ParseFrame(d.shift)
		d.state = StateIdle
		if !frame.WriteFlag {
			return Event{Type: EventReadIgnored, Tick: tickNo, Frame: frame}, true
		}
		regs.write(frame.Address, frame.Data)
		return Event{Type: EventCommit, Tick: tickNo, Frame: frame}, true
	}

	return Event{}, false
}
