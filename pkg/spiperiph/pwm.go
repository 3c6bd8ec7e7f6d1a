// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// pwmGenerator is the free-running duty-cycle generator shared by every
// PWM-selected output pin. A prescaler wraps every ClockDivider + 1
// ticks and steps an 8-bit position counter, so one full PWM period is
// (ClockDivider + 1) * 256 local ticks.
type pwmGenerator struct {
	prescale uint8
	position uint8
}

func (g *pwmGenerator) reset() {
	g.prescale = 0
	g.position = 0
}

func (g *pwmGenerator) tick() {
	if g.prescale == ClockDivider {
		g.prescale = 0
		g.position++ // wraps at 256 by type width
	} else {
		g.prescale++
	}
}

// level reports the wave state for the given duty register value. A duty
// of 0xFF means always high (true 100%), otherwise the wave is high for
// duty out of every 256 positions.
func (g *pwmGenerator) level(duty byte) bool {
	return duty == 0xFF || g.position < duty
}
