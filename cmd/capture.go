// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/spitap/pkg/spiperiph"
)

var captureCmd = &cobra.Command{
	Use:   "capture <output.cbor>",
	Short: "Record live capture traffic to a trace file",
	Long: `Read raw line samples from a serial or WebSocket probe and record them,
together with the register commits the model observes, into a CBOR trace
that 'replay' can consume later.

Recording stops on Ctrl+C; the trace is written on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadActiveConfig()
	if err != nil {
		return err
	}
	logger := initLogger("capture")

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info().Str("connection", connInfo).Str("output", args[0]).Msg("recording")

	trace := spiperiph.NewTrace(cfg.TickHz)
	p := spiperiph.New()
	p.Notify = func(ev spiperiph.Event) {
		if ev.Type != spiperiph.EventCommit {
			return
		}
		trace.Events = append(trace.Events, spiperiph.CommitEvent{
			Tick:    ev.Tick,
			Address: ev.Frame.Address,
			Data:    ev.Frame.Data,
		})
		logger.Info().
			Uint64("tick", ev.Tick).
			Uint8("addr", ev.Frame.Address).
			Str("data", fmt.Sprintf("0x%02X", ev.Frame.Data)).
			Msg("register write")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	reads := make(chan sampleChunk)
	go streamSamples(conn, reads)

	done := false
	for !done {
		select {
		case <-sig:
			logger.Info().Msg("interrupted")
			done = true
		case r := <-reads:
			trace.Samples = append(trace.Samples, r.data...)
			p.Run(r.data)
			if r.err != nil {
				if r.err != ErrConnectionClosed {
					logger.Error().Err(r.err).Msg("read error, stopping")
				}
				done = true
			}
		}
	}

	data, err := trace.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write trace %s: %w", args[0], err)
	}
	logger.Info().
		Int("samples", len(trace.Samples)).
		Int("commits", len(trace.Events)).
		Msg("trace written")
	return nil
}
