// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import "fmt"

// Sample is one raw observation of the three external lines, taken once
// per local clock tick. The bit layout matches the capture hardware's
// input port: bit 0 is the serial clock, bit 1 the serial data line,
// bit 2 the chip select (active low). The remaining bits are reserved
// and ignored.
type Sample byte

// Line positions within a Sample byte.
const (
	SampleSCLK Sample = 1 << 0
	SampleCOPI Sample = 1 << 1
	SampleNCS  Sample = 1 << 2
)

// NewSample builds a Sample from individual line levels. ncs is the raw
// chip-select level (true = deselected).
func NewSample(ncs, copi, sclk bool) Sample {
	var s Sample
	if sclk {
		s |= SampleSCLK
	}
	if copi {
		s |= SampleCOPI
	}
	if ncs {
		s |= SampleNCS
	}
	return s
}

// IdleSample returns the bus-idle line state: deselected, clock low,
// data low.
func IdleSample() Sample {
	return SampleNCS
}

// SCLK reports the serial clock level.
func (s Sample) SCLK() bool { return s&SampleSCLK != 0 }

// COPI reports the serial data line level.
func (s Sample) COPI() bool { return s&SampleCOPI != 0 }

// NCS reports the raw chip-select level (true = deselected).
func (s Sample) NCS() bool { return s&SampleNCS != 0 }

// Selected reports whether the peripheral is addressed (chip select
// asserted low).
func (s Sample) Selected() bool { return !s.NCS() }

func (s Sample) String() string {
	return fmt.Sprintf("ncs=%d copi=%d sclk=%d", b2u(s.NCS()), b2u(s.COPI()), b2u(s.SCLK()))
}

func b2u(b bool) int {
	if b {
		return 1
	}
	return 0
}
