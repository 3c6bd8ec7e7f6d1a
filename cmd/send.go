// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/spitap/pkg/spiperiph"
)

var (
	sendAddr    uint8
	sendData    uint8
	sendRead    bool
	sendHalfBit int
	sendDryRun  bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Drive one register write onto the bus",
	Long: `Render a single frame transaction as a per-tick sample stream and write
it to the connection, where a line driver replays it onto the device's
inputs.

With --dry-run the stream is hex-dumped instead of transmitted. Note
that a --read frame is accepted by the device but has no effect; the
protocol is write-only.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().Uint8Var(&sendAddr, "addr", 0, "Register address (0-127 on the wire, 0-4 valid)")
	sendCmd.Flags().Uint8Var(&sendData, "data", 0, "Data byte")
	sendCmd.Flags().BoolVar(&sendRead, "read", false, "Send with the write flag clear")
	sendCmd.Flags().IntVar(&sendHalfBit, "half-bit", spiperiph.DefaultHalfBitTicks, "Serial clock half period in device ticks")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Print the sample stream instead of sending")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	if _, err := loadActiveConfig(); err != nil {
		return err
	}

	frame := spiperiph.Frame{
		WriteFlag: !sendRead,
		Address:   sendAddr,
		Data:      sendData,
	}
	samples, err := spiperiph.TransactionSamples(frame, sendHalfBit)
	if err != nil {
		return err
	}

	if sendDryRun {
		fmt.Printf("Frame: %s (%d samples)\n", frame, len(samples))
		for i, b := range samples {
			if i%16 == 0 {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("%6d: ", i)
			}
			fmt.Printf("%02X ", b)
		}
		fmt.Println()
		return nil
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(samples); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	fmt.Printf("Sent %s as %d samples via %s\n", frame, len(samples), connInfo)
	return nil
}
