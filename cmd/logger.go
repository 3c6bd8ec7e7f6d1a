// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger configures the console logger used by the long-running
// commands (monitor, capture).
func initLogger(command string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("cmd", command).Logger()
	log.Logger = logger
	return logger
}
