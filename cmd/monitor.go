// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/spitap/pkg/spiperiph"
)

var monitorStatsInterval int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode live capture traffic from a probe",
	Long: `Continuously read raw line samples from a serial or WebSocket probe,
tick the peripheral model and log decoded register activity.

Every sample byte advances the model by one tick, so the probe must
stream one byte per device clock cycle.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 30, "Seconds between statistics summaries (0 = off)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadActiveConfig()
	if err != nil {
		return err
	}
	logger := initLogger("monitor")

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info().Str("connection", connInfo).Msg("monitoring")

	p := spiperiph.New()
	p.Notify = func(ev spiperiph.Event) {
		switch ev.Type {
		case spiperiph.EventCommit:
			logger.Info().
				Uint64("tick", ev.Tick).
				Uint8("addr", ev.Frame.Address).
				Str("register", registerLabel(cfg, ev.Frame.Address)).
				Str("data", fmt.Sprintf("0x%02X", ev.Frame.Data)).
				Msg("register write")
		case spiperiph.EventRejectAddress:
			logger.Warn().
				Uint64("tick", ev.Tick).
				Uint8("addr", ev.Frame.Address).
				Msg("address out of range, frame dropped")
		case spiperiph.EventReadIgnored:
			logger.Debug().
				Uint64("tick", ev.Tick).
				Uint8("addr", ev.Frame.Address).
				Msg("read-flagged frame ignored")
		case spiperiph.EventRestart:
			logger.Warn().
				Uint64("tick", ev.Tick).
				Msg("frame restarted mid-reception")
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var statsTick <-chan time.Time
	if monitorStatsInterval > 0 {
		ticker := time.NewTicker(time.Duration(monitorStatsInterval) * time.Second)
		defer ticker.Stop()
		statsTick = ticker.C
	}

	reads := make(chan sampleChunk)
	go streamSamples(conn, reads)

	for {
		select {
		case <-sig:
			logger.Info().Msg("interrupted")
			fmt.Print(p.Stats().String())
			return nil
		case <-statsTick:
			fmt.Print(p.Stats().String())
		case r := <-reads:
			p.Run(r.data)
			if r.err != nil {
				if r.err == ErrConnectionClosed {
					logger.Info().Msg("connection closed")
					fmt.Print(p.Stats().String())
					return nil
				}
				return fmt.Errorf("read error: %w", r.err)
			}
		}
	}
}
