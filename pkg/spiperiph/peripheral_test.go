// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import "testing"

const testHalfBit = 4

// sendFrame runs one complete controller transaction through the
// peripheral.
func sendFrame(t *testing.T, p *Peripheral, f Frame) {
	t.Helper()
	samples, err := TransactionSamples(f, testHalfBit)
	if err != nil {
		t.Fatalf("TransactionSamples(%v) error: %v", f, err)
	}
	p.Run(samples)
}

// ============================================================
// Reset Behavior
// ============================================================

func TestReset_AllRegistersZero(t *testing.T) {
	p := New()
	for addr := uint8(0); addr <= MaxAddress; addr++ {
		if v := p.Register(addr); v != 0 {
			t.Errorf("Register(%d) = 0x%02X after reset, want 0", addr, v)
		}
	}
	if p.State() != StateIdle {
		t.Errorf("State = %v after reset, want IDLE", p.State())
	}
}

func TestReset_NoSpuriousFrameStart(t *testing.T) {
	// The select chain resets to its idle (deselected) level, so ticking
	// an idle bus must not start a frame.
	p := New()
	p.Run(IdleSamples(20))
	if p.Stats().FramesStarted != 0 {
		t.Errorf("FramesStarted = %d on an idle bus, want 0", p.Stats().FramesStarted)
	}
}

// ============================================================
// Write Frame Commit
// ============================================================

func TestWriteFrame_CommitsToRegister(t *testing.T) {
	for addr := uint8(0); addr <= MaxAddress; addr++ {
		p := New()
		sendFrame(t, p, Frame{WriteFlag: true, Address: addr, Data: 0x5A})
		if v := p.Register(addr); v != 0x5A {
			t.Errorf("Register(%d) = 0x%02X, want 0x5A", addr, v)
		}
		for other := uint8(0); other <= MaxAddress; other++ {
			if other != addr && p.Register(other) != 0 {
				t.Errorf("Register(%d) = 0x%02X after write to %d, want 0", other, p.Register(other), addr)
			}
		}
		if p.State() != StateIdle {
			t.Errorf("State = %v after complete frame, want IDLE", p.State())
		}
	}
}

func TestWriteFrame_ReferenceScenario(t *testing.T) {
	// reset; write {1, 0, 0xAA}; write {1, 4, 0xF0}; write {1, 127, 0x01}.
	p := New()

	sendFrame(t, p, Frame{WriteFlag: true, Address: 0, Data: 0xAA})
	if v := p.Register(0); v != 0xAA {
		t.Fatalf("Register(0) = 0x%02X, want 0xAA", v)
	}

	sendFrame(t, p, Frame{WriteFlag: true, Address: 4, Data: 0xF0})
	if v := p.Register(4); v != 0xF0 {
		t.Errorf("Register(4) = 0x%02X, want 0xF0", v)
	}
	if v := p.Register(0); v != 0xAA {
		t.Errorf("Register(0) = 0x%02X after unrelated write, want 0xAA", v)
	}

	before := p.Registers()
	sendFrame(t, p, Frame{WriteFlag: true, Address: 127, Data: 0x01})
	if p.Registers() != before {
		t.Errorf("registers changed by out-of-range write: %v -> %v", before, p.Registers())
	}
}

func TestWriteFrame_LastWriterWins(t *testing.T) {
	p := New()
	sendFrame(t, p, Frame{WriteFlag: true, Address: 2, Data: 0x11})
	sendFrame(t, p, Frame{WriteFlag: true, Address: 2, Data: 0x22})
	if v := p.Register(2); v != 0x22 {
		t.Errorf("Register(2) = 0x%02X, want 0x22", v)
	}
	if got := p.Stats().FramesCommitted; got != 2 {
		t.Errorf("FramesCommitted = %d, want 2", got)
	}
}

func TestWriteFrame_BackToBack(t *testing.T) {
	p := New()
	sendFrame(t, p, Frame{WriteFlag: true, Address: 1, Data: 0xCC})
	sendFrame(t, p, Frame{WriteFlag: true, Address: 3, Data: 0x0F})
	if v := p.Register(1); v != 0xCC {
		t.Errorf("Register(1) = 0x%02X, want 0xCC", v)
	}
	if v := p.Register(3); v != 0x0F {
		t.Errorf("Register(3) = 0x%02X, want 0x0F", v)
	}
}

// ============================================================
// Rejected and Ignored Frames
// ============================================================

func TestInvalidAddress_Rejected(t *testing.T) {
	tests := []uint8{MaxAddress + 1, 0x30, 0x41, 127}

	for _, addr := range tests {
		p := New()
		sendFrame(t, p, Frame{WriteFlag: true, Address: addr, Data: 0xAA})
		if p.Registers() != ([RegisterCount]byte{}) {
			t.Errorf("registers changed by write to 0x%02X: %v", addr, p.Registers())
		}
		if got := p.Stats().RejectedAddress; got != 1 {
			t.Errorf("RejectedAddress = %d for addr 0x%02X, want 1", got, addr)
		}
	}
}

func TestMaxAddress_Inclusive(t *testing.T) {
	p := New()
	sendFrame(t, p, Frame{WriteFlag: true, Address: MaxAddress, Data: 0x77})
	if v := p.Register(MaxAddress); v != 0x77 {
		t.Errorf("Register(MaxAddress) = 0x%02X, want 0x77", v)
	}
}

func TestReadFrame_NoEffect(t *testing.T) {
	p := New()
	sendFrame(t, p, Frame{WriteFlag: true, Address: 0, Data: 0xF0})

	sendFrame(t, p, Frame{WriteFlag: false, Address: 0, Data: 0xBE})
	if v := p.Register(0); v != 0xF0 {
		t.Errorf("Register(0) = 0x%02X after read frame, want 0xF0", v)
	}
	if got := p.Stats().ReadIgnored; got != 1 {
		t.Errorf("ReadIgnored = %d, want 1", got)
	}

	// Read with an invalid address fails validation first.
	sendFrame(t, p, Frame{WriteFlag: false, Address: 0x41, Data: 0xEF})
	if got := p.Stats().RejectedAddress; got != 1 {
		t.Errorf("RejectedAddress = %d, want 1", got)
	}
}

// ============================================================
// Mid-Frame Recovery
// ============================================================

func TestTruncatedFrame_StaysReceiving(t *testing.T) {
	// Chip select withdrawn after 5 bits: the decoder has no abort path
	// out of RECEIVING and keeps waiting for the remaining bits.
	p := New()
	full, err := TransactionSamples(Frame{WriteFlag: true, Address: 0, Data: 0xFF}, testHalfBit)
	if err != nil {
		t.Fatal(err)
	}
	cut := 1 + 5*2*testHalfBit // select assert + 5 full bit periods
	p.Run(full[:cut])
	p.Run(IdleSamples(50))

	if p.State() != StateReceiving {
		t.Errorf("State = %v after truncated frame, want RECEIVING", p.State())
	}
	if p.Registers() != ([RegisterCount]byte{}) {
		t.Errorf("registers changed by truncated frame: %v", p.Registers())
	}
}

func TestNewFrameStart_RestartsReception(t *testing.T) {
	// A fresh frame-start pulse after a truncated frame restarts
	// assembly, and the new frame commits cleanly.
	p := New()
	full, err := TransactionSamples(Frame{WriteFlag: true, Address: 1, Data: 0xFF}, testHalfBit)
	if err != nil {
		t.Fatal(err)
	}
	p.Run(full[:1+5*2*testHalfBit])
	p.Run(IdleSamples(20))

	sendFrame(t, p, Frame{WriteFlag: true, Address: 2, Data: 0x42})

	if v := p.Register(2); v != 0x42 {
		t.Errorf("Register(2) = 0x%02X after restart, want 0x42", v)
	}
	if v := p.Register(1); v != 0 {
		t.Errorf("Register(1) = 0x%02X, abandoned frame must not commit", v)
	}
	if got := p.Stats().Restarts; got != 1 {
		t.Errorf("Restarts = %d, want 1", got)
	}
}

// ============================================================
// Event Notification
// ============================================================

func TestNotify_ReportsOutcomes(t *testing.T) {
	p := New()
	var events []Event
	p.Notify = func(ev Event) { events = append(events, ev) }

	sendFrame(t, p, Frame{WriteFlag: true, Address: 0, Data: 0xAA})
	sendFrame(t, p, Frame{WriteFlag: false, Address: 3, Data: 0x00})
	sendFrame(t, p, Frame{WriteFlag: true, Address: 99, Data: 0x00})

	want := []EventType{EventCommit, EventReadIgnored, EventRejectAddress}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, ev.Type, want[i])
		}
	}
	if events[0].Frame != (Frame{WriteFlag: true, Address: 0, Data: 0xAA}) {
		t.Errorf("commit event frame = %v", events[0].Frame)
	}
}

// ============================================================
// Pacing
// ============================================================

func TestSlowestClock_StillDecodes(t *testing.T) {
	p := New()
	samples, err := TransactionSamples(Frame{WriteFlag: true, Address: 3, Data: 0x99}, MinHalfBitTicks)
	if err != nil {
		t.Fatal(err)
	}
	p.Run(samples)
	p.Run(IdleSamples(10))
	if v := p.Register(3); v != 0x99 {
		t.Errorf("Register(3) = 0x%02X at minimum pacing, want 0x99", v)
	}
}

func TestTransactionSamples_RejectsTooFastClock(t *testing.T) {
	_, err := TransactionSamples(Frame{WriteFlag: true, Address: 0, Data: 0}, MinHalfBitTicks-1)
	if err == nil {
		t.Error("Expected error for half-bit period below minimum")
	}
}

// ============================================================
// Concurrent Consumers
// ============================================================

// One goroutine owns the peripheral and ships statistics snapshots to a
// consumer that formats and recomputes rates on its copy, the same
// hand-off the live dashboard uses. The race detector must stay quiet.
func TestStatsSnapshot_SafeAcrossGoroutines(t *testing.T) {
	p := New()
	waveforms := make([][]byte, 50)
	for i := range waveforms {
		f := Frame{WriteFlag: true, Address: uint8(i % RegisterCount), Data: byte(i)}
		samples, err := TransactionSamples(f, testHalfBit)
		if err != nil {
			t.Fatalf("TransactionSamples(%v) error: %v", f, err)
		}
		waveforms[i] = samples
	}

	snapshots := make(chan Statistics, 16)
	go func() {
		defer close(snapshots)
		for _, samples := range waveforms {
			p.Run(samples)
			snapshots <- p.Stats().Snapshot()
		}
	}()

	var last uint64
	for snap := range snapshots {
		snap.CalculateRates()
		_ = snap.String()
		if snap.FramesCommitted < last {
			t.Fatalf("FramesCommitted went backwards: %d after %d", snap.FramesCommitted, last)
		}
		last = snap.FramesCommitted
	}
	if last != 50 {
		t.Errorf("final snapshot reports %d commits, want 50", last)
	}
}
