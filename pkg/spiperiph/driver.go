// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import "fmt"

// Controller-side sample synthesis. The peripheral never talks back, so
// "driving" the bus means producing the exact per-tick line levels a
// well-behaved controller generates for one transaction.

// DefaultHalfBitTicks is the half period of the serial clock in local
// ticks used when no pacing is specified, a 100:1 clock-to-SCLK ratio.
const DefaultHalfBitTicks = 50

// MinHalfBitTicks is the slowest clock the synchronizers can track: the
// level must survive two raw samples to register at all.
const MinHalfBitTicks = 2

// TransactionSamples renders one complete frame transmission as a raw
// sample stream, one byte per local tick: chip select drops, each bit is
// presented MSB first with the clock low for halfBit ticks then high for
// halfBit ticks, and the stream tails off with the clock low, chip
// select released and a short idle run so the frame settles through the
// synchronizers and decoder.
func TransactionSamples(f Frame, halfBit int) ([]byte, error) {
	if halfBit < MinHalfBitTicks {
		return nil, fmt.Errorf("half-bit period %d below minimum %d ticks", halfBit, MinHalfBitTicks)
	}
	word, err := f.Pack()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+FrameBits*2*halfBit+2*halfBit)

	// Assert chip select with the clock low.
	out = append(out, byte(NewSample(false, false, false)))

	for i := FrameBits - 1; i >= 0; i-- {
		bit := word>>i&1 != 0
		for t := 0; t < halfBit; t++ {
			out = append(out, byte(NewSample(false, bit, false)))
		}
		for t := 0; t < halfBit; t++ {
			out = append(out, byte(NewSample(false, bit, true)))
		}
	}

	// Release the bus and let the tail propagate.
	for t := 0; t < 2*halfBit; t++ {
		out = append(out, byte(IdleSample()))
	}

	return out, nil
}

// IdleSamples returns n ticks of bus-idle line state.
func IdleSamples(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(IdleSample())
	}
	return out
}
