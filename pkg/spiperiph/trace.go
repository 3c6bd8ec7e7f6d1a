// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package spiperiph

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// TraceVersion is the current capture trace format version.
const TraceVersion = 1

// ErrTraceVersion is returned when a trace was recorded with an
// unsupported format version.
var ErrTraceVersion = errors.New("unsupported trace version")

// CommitEvent records one register write observed during a capture.
type CommitEvent struct {
	Tick    uint64 `cbor:"tick"`
	Address uint8  `cbor:"addr"`
	Data    byte   `cbor:"data"`
}

// Trace is a recorded capture session: the raw per-tick line samples
// plus the register commits the model observed while recording.
type Trace struct {
	Version int           `cbor:"version"`
	TickHz  int           `cbor:"tick_hz,omitempty"`
	Samples []byte        `cbor:"samples"`
	Events  []CommitEvent `cbor:"events,omitempty"`
}

// NewTrace returns an empty trace at the current format version.
func NewTrace(tickHz int) *Trace {
	return &Trace{Version: TraceVersion, TickHz: tickHz}
}

// Encode serializes the trace to its CBOR wire form.
func (t *Trace) Encode() ([]byte, error) {
	if t.Version != TraceVersion {
		return nil, fmt.Errorf("%w: %d", ErrTraceVersion, t.Version)
	}
	data, err := cbor.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trace: %w", err)
	}
	return data, nil
}

// DecodeTrace parses a CBOR-encoded trace and checks its version.
func DecodeTrace(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	if t.Version != TraceVersion {
		return nil, fmt.Errorf("%w: %d", ErrTraceVersion, t.Version)
	}
	return &t, nil
}
