// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kestrelworks/spitap/pkg/spiperiph"
)

// Config holds the optional TOML config file contents. Flags given on
// the command line always win over file values.
type Config struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	URL      string `toml:"url"`
	Username string `toml:"username"`

	// TickHz is the capture sample rate recorded in traces, in samples
	// per second. Zero means unknown.
	TickHz int `toml:"tick_hz"`

	// RegisterLabels overrides the display names of register addresses,
	// keyed by decimal address.
	RegisterLabels map[string]string `toml:"register_labels"`
}

// DefaultConfig returns the built-in settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Baud:   115200,
		TickHz: 10_000_000,
	}
}

// LoadConfig reads a TOML config file over the defaults and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", cfg.Baud)
	}
	if cfg.TickHz < 0 {
		return fmt.Errorf("tick_hz must not be negative, got %d", cfg.TickHz)
	}
	if cfg.URL != "" && !strings.HasPrefix(cfg.URL, "ws://") && !strings.HasPrefix(cfg.URL, "wss://") {
		return fmt.Errorf("url must start with ws:// or wss://, got %q", cfg.URL)
	}
	for key := range cfg.RegisterLabels {
		var addr int
		if _, err := fmt.Sscanf(key, "%d", &addr); err != nil || addr < 0 || addr > spiperiph.MaxAddress {
			return fmt.Errorf("register_labels key %q is not a register address (0-%d)", key, spiperiph.MaxAddress)
		}
	}
	return nil
}

// loadActiveConfig loads --config if given and folds file values into
// any connection flags the user left at their defaults.
func loadActiveConfig() (Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if portName == "" {
		portName = cfg.Port
	}
	if !rootCmd.PersistentFlags().Changed("baud") && cfg.Baud != 0 {
		baudRate = cfg.Baud
	}
	if wsURL == "" {
		wsURL = cfg.URL
	}
	if wsUsername == "" {
		wsUsername = cfg.Username
	}

	return cfg, nil
}

// registerLabel returns the display name for a register address, using
// any config override before the design name.
func registerLabel(cfg Config, addr uint8) string {
	if name, ok := cfg.RegisterLabels[fmt.Sprintf("%d", addr)]; ok {
		return name
	}
	return spiperiph.RegisterName(addr)
}
