// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// Peripheral composes the synchronizers, edge detection, frame decoder,
// register file and PWM generator into the complete device. Data flows
// one direction: raw lines → synchronizers → edges → decoder → register
// file → output pins. Tick drives every component once per local clock
// cycle; within a tick each component reads only values latched on the
// previous tick, matching the synchronous single-writer model of the
// hardware.
type Peripheral struct {
	ncs  synchronizer
	sclk synchronizer
	copi synchronizer

	dec   decoder
	regs  RegisterFile
	pwm   pwmGenerator
	stats Statistics

	ticks uint64

	// Notify, when set, receives every decoder outcome as it completes.
	// It is called from inside Tick; keep it cheap.
	Notify func(Event)
}

// New returns a Peripheral in its reset state.
func New() *Peripheral {
	p := &Peripheral{}
	p.Reset()
	return p
}

// Reset applies the global reset: synchronizer chains to their idle
// levels, decoder to IDLE, every register to zero, PWM counters to zero.
func (p *Peripheral) Reset() {
	p.ncs.reset(true)
	p.sclk.reset(false)
	p.copi.reset(false)
	p.dec.reset()
	p.regs.Reset()
	p.pwm.reset()
	p.stats.Reset()
	p.ticks = 0
}

// Tick advances the whole device by one local clock cycle using the raw
// line sample observed on that cycle.
func (p *Peripheral) Tick(s Sample) {
	p.ticks++

	// The chains shift unconditionally; no stage is ever held.
	p.ncs.shift(s.NCS())
	p.sclk.shift(s.SCLK())
	p.copi.shift(s.COPI())

	edges := detectEdges(&p.ncs, &p.sclk)
	if edges.frameStart {
		p.stats.FramesStarted++
	}
	if edges.samplePoint && p.dec.state == StateReceiving {
		p.stats.BitsSampled++
	}

	if ev, ok := p.dec.tick(edges, p.copi.current(), p.ticks, &p.regs); ok {
		p.stats.record(ev)
		if p.Notify != nil {
			p.Notify(ev)
		}
	}

	p.pwm.tick()
}

// Run feeds a stream of raw sample bytes through Tick in order.
func (p *Peripheral) Run(samples []byte) {
	for _, b := range samples {
		p.Tick(Sample(b))
	}
}

// Register reads one register file cell.
func (p *Peripheral) Register(addr uint8) byte {
	return p.regs.Read(addr)
}

// Registers snapshots the full register file.
func (p *Peripheral) Registers() [RegisterCount]byte {
	return p.regs.Snapshot()
}

// State returns the decoder's current state.
func (p *Peripheral) State() DecoderState {
	return p.dec.state
}

// Ticks returns the number of local clock cycles since reset.
func (p *Peripheral) Ticks() uint64 {
	return p.ticks
}

// Stats exposes the running statistics tracker.
func (p *Peripheral) Stats() *Statistics {
	return &p.stats
}

// OutPins returns the primary 8-bit output port, driven by registers 0
// (pin enables) and 2 (PWM select) plus the shared duty register.
func (p *Peripheral) OutPins() byte {
	return p.port(p.regs.Read(0), p.regs.Read(2))
}

// BidirPins returns the secondary 8-bit output port, driven by
// registers 1 and 3.
func (p *Peripheral) BidirPins() byte {
	return p.port(p.regs.Read(1), p.regs.Read(3))
}

// port gates the enable mask through the PWM wave: a disabled pin is
// low, an enabled pin without PWM mirrors its enable bit, an enabled pin
// with PWM selected carries the wave.
func (p *Peripheral) port(enable, pwmSelect byte) byte {
	if p.pwm.level(p.regs.Read(4)) {
		return enable
	}
	return enable &^ pwmSelect
}
