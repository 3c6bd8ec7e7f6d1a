// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

// Package spiperiph models a write-only SPI register-configuration
// peripheral at clock-cycle accuracy.
//
// The peripheral samples three asynchronous lines (serial clock, chip
// select, serial data) once per local clock tick, resynchronizes them
// through fixed-depth shift chains, and runs a four-state decoder that
// assembles 16-bit frames (1 write flag + 7 address bits + 8 data bits,
// MSB first) into a five-entry byte register file. A PWM generator and
// two output ports driven from the register file round out the device.
package spiperiph

// Frame geometry. The wire order is MSB first: write flag, then address,
// then data.
const (
	WriteFlagBits = 1
	AddressBits   = 7
	DataBits      = 8
	FrameBits     = WriteFlagBits + AddressBits + DataBits
)

// Frame field offsets within the 16-bit wire word.
const (
	writeFlagShift = AddressBits + DataBits // bit 15
	addressShift   = DataBits               // bits 14..8
	addressMask    = 1<<AddressBits - 1
	dataMask       = 1<<DataBits - 1
)

// Register file dimensions. Addresses above MaxAddress are structurally
// valid on the wire but rejected at validation.
const (
	RegisterCount = 5
	MaxAddress    = RegisterCount - 1
)

// SyncDepth is the length of each input synchronizer chain. The two
// oldest taps drive edge detection and the newest tap qualifies it, so a
// line change becomes visible to the decoder after SyncDepth - 1 ticks.
const SyncDepth = 3

// ClockDivider sets the PWM tick prescaler. The PWM position counter
// advances every ClockDivider + 1 local ticks, giving a full period of
// (ClockDivider + 1) * 256 ticks.
const ClockDivider = 12
