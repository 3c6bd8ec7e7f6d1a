// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

// synchronizer resamples one external line into the local clock domain
// through a fixed-depth shift chain. The chain is shifted every tick
// regardless of device state, so the edge-detection taps are always
// exactly one and two ticks old.
//
// chain[0] is the newest sample, chain[SyncDepth-1] the oldest.
type synchronizer struct {
	chain [SyncDepth]bool
}

// reset fills the whole chain with the line's idle level so that no
// spurious edge fires on the first ticks after reset.
func (s *synchronizer) reset(idle bool) {
	for i := range s.chain {
		s.chain[i] = idle
	}
}

// shift pushes the current raw sample and drops the oldest.
func (s *synchronizer) shift(raw bool) {
	copy(s.chain[1:], s.chain[:SyncDepth-1])
	s.chain[0] = raw
}

// current is the synchronized line level seen by the decoder.
func (s *synchronizer) current() bool { return s.chain[SyncDepth-2] }

// previous is the tap one tick older than current.
func (s *synchronizer) previous() bool { return s.chain[SyncDepth-1] }

// confirm is the newest tap. Edge detection requires it to agree with
// current, so a level change must survive two consecutive raw samples
// before it registers; a one-tick glitch never produces an edge.
func (s *synchronizer) confirm() bool { return s.chain[0] }
