// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import "fmt"

// Frame is one complete protocol exchange: write flag, 7-bit register
// address and 8-bit data value, sent serially MSB first. Frames are
// transient; the peripheral discards them after validation whether or
// not they commit.
type Frame struct {
	WriteFlag bool
	Address   uint8
	Data      byte
}

// Pack renders the frame as its 16-bit wire word. The address must fit
// in AddressBits; all fields are unsigned with no sign extension.
func (f Frame) Pack() (uint16, error) {
	if f.Address > addressMask {
		return 0, fmt.Errorf("address 0x%02X exceeds %d bits", f.Address, AddressBits)
	}
	var word uint16
	if f.WriteFlag {
		word |= 1 << writeFlagShift
	}
	word |= uint16(f.Address) << addressShift
	word |= uint16(f.Data)
	return word, nil
}

// ParseFrame splits a 16-bit wire word into its fields.
func ParseFrame(word uint16) Frame {
	return Frame{
		WriteFlag: word>>writeFlagShift&1 != 0,
		Address:   uint8(word >> addressShift & addressMask),
		Data:      byte(word & dataMask),
	}
}

func (f Frame) String() string {
	op := "read"
	if f.WriteFlag {
		op = "write"
	}
	return fmt.Sprintf("%s addr=0x%02X data=0x%02X", op, f.Address, f.Data)
}
