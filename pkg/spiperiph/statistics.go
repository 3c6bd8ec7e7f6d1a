// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import (
	"fmt"
	"time"
)

// Statistics tracks frame outcomes and rates for a decode session.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	FramesStarted   uint64
	BitsSampled     uint64
	FramesCommitted uint64
	RejectedAddress uint64
	ReadIgnored     uint64
	Restarts        uint64

	// Rates (calculated)
	FrameRate  float64 // completed frames/sec
	CommitRate float64 // commits/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	s := &Statistics{}
	s.Reset()
	return s
}

// record folds one decoder outcome into the counters.
func (s *Statistics) record(ev Event) {
	if s.StartTime.IsZero() {
		s.StartTime = time.Now()
	}
	switch ev.Type {
	case EventCommit:
		s.FramesCommitted++
	case EventRejectAddress:
		s.RejectedAddress++
	case EventReadIgnored:
		s.ReadIgnored++
	case EventRestart:
		s.Restarts++
	}
	s.LastUpdateTime = time.Now()
}

// Snapshot returns a copy of the current counters. The tracker itself
// is not safe for concurrent use; a goroutine feeding the peripheral
// hands snapshots to other goroutines instead of sharing the tracker.
func (s *Statistics) Snapshot() Statistics {
	return *s
}

// Completed returns the number of frames that reached validation.
func (s *Statistics) Completed() uint64 {
	return s.FramesCommitted + s.RejectedAddress + s.ReadIgnored
}

// CalculateRates recomputes the per-second rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.Completed()) / elapsed
		s.CommitRate = float64(s.FramesCommitted) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	completed := s.Completed()
	var commitPercent float64
	if completed > 0 {
		commitPercent = float64(s.FramesCommitted) * 100.0 / float64(completed)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Frames Started:  %8d\n", s.FramesStarted)
	result += fmt.Sprintf("Frames Done:     %8d\n", completed)
	result += fmt.Sprintf("Committed:       %8d (%.1f%%)\n", s.FramesCommitted, commitPercent)
	if s.RejectedAddress > 0 {
		result += fmt.Sprintf("Bad Address:     %8d\n", s.RejectedAddress)
	}
	if s.ReadIgnored > 0 {
		result += fmt.Sprintf("Reads Ignored:   %8d\n", s.ReadIgnored)
	}
	if s.Restarts > 0 {
		result += fmt.Sprintf("Restarts:        %8d\n", s.Restarts)
	}
	result += fmt.Sprintf("Bits Sampled:    %8d\n", s.BitsSampled)
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters.
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{StartTime: now, LastUpdateTime: now}
}
