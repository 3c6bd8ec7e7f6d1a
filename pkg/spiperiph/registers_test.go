// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import "testing"

func TestRegisterFile_ResetAndRead(t *testing.T) {
	var r RegisterFile
	r.write(0, 0xAA)
	r.write(MaxAddress, 0x55)
	r.Reset()
	for addr := uint8(0); addr <= MaxAddress; addr++ {
		if v := r.Read(addr); v != 0 {
			t.Errorf("Read(%d) = 0x%02X after reset, want 0", addr, v)
		}
	}
}

func TestRegisterFile_OutOfRangeReadsZero(t *testing.T) {
	var r RegisterFile
	r.write(0, 0xFF)
	if v := r.Read(RegisterCount); v != 0 {
		t.Errorf("Read(%d) = 0x%02X, want 0", RegisterCount, v)
	}
	if v := r.Read(127); v != 0 {
		t.Errorf("Read(127) = 0x%02X, want 0", v)
	}
}

func TestRegisterName(t *testing.T) {
	tests := []struct {
		addr uint8
		name string
	}{
		{0, "en_reg_out_7_0"},
		{1, "en_reg_out_15_8"},
		{2, "en_reg_pwm_7_0"},
		{3, "en_reg_pwm_15_8"},
		{4, "pwm_duty_cycle"},
		{5, ""},
		{127, ""},
	}
	for _, tt := range tests {
		if got := RegisterName(tt.addr); got != tt.name {
			t.Errorf("RegisterName(%d) = %q, want %q", tt.addr, got, tt.name)
		}
	}
}
