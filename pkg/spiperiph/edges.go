// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// edgePulses carries the single-tick pulses derived from the chip-select
// and serial-clock synchronizers. Each pulse is valid only on the tick
// it is computed; the decoder must never hold or re-trigger on one.
type edgePulses struct {
	frameStart  bool // chip select falling: a new frame begins
	samplePoint bool // serial clock rising: capture one data bit
	frameEnd    bool // chip select rising: the controller released the bus
}

// detectEdges derives the pulse set from the two oldest taps of each
// chain, qualified by the newest tap.
func detectEdges(ncs, sclk *synchronizer) edgePulses {
	return edgePulses{
		frameStart:  fallingEdge(ncs),
		samplePoint: risingEdge(sclk),
		frameEnd:    risingEdge(ncs),
	}
}

func risingEdge(s *synchronizer) bool {
	return !s.previous() && s.current() && s.confirm()
}

func fallingEdge(s *synchronizer) bool {
	return s.previous() && !s.current() && !s.confirm()
}
