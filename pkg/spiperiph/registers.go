// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// RegisterFile is the peripheral's only durable state: five byte-wide
// cells, each reset to zero, each overwritten only by the decoder's
// update phase. Reads are always defined.
type RegisterFile struct {
	cells [RegisterCount]byte
}

// Reset zeroes every register.
func (r *RegisterFile) Reset() {
	r.cells = [RegisterCount]byte{}
}

// Read returns the value at addr. Addresses outside the file read as
// zero; they can never have been written.
func (r *RegisterFile) Read(addr uint8) byte {
	if int(addr) >= RegisterCount {
		return 0
	}
	return r.cells[addr]
}

// Snapshot copies the full register contents for display.
func (r *RegisterFile) Snapshot() [RegisterCount]byte {
	return r.cells
}

// write is the sole mutator, invoked only from the decoder's update
// phase with a validated address.
func (r *RegisterFile) write(addr uint8, v byte) {
	r.cells[addr] = v
}

// Design names of the register addresses, after the function each
// register serves on the output side.
var registerNames = [RegisterCount]string{
	"en_reg_out_7_0",
	"en_reg_out_15_8",
	"en_reg_pwm_7_0",
	"en_reg_pwm_15_8",
	"pwm_duty_cycle",
}

// RegisterName returns the design name of a register address, or "" for
// addresses outside the file.
func RegisterName(addr uint8) string {
	if int(addr) >= RegisterCount {
		return ""
	}
	return registerNames[addr]
}
