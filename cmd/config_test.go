// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spitap.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Baud != 115200 {
		t.Errorf("default baud = %d, want 115200", cfg.Baud)
	}
	if cfg.TickHz != 10_000_000 {
		t.Errorf("default tick_hz = %d, want 10000000", cfg.TickHz)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfigFile(t, `
port = "/dev/ttyACM0"
baud = 921600
url = "wss://probe.local/stream"
username = "operator"
tick_hz = 50000000

[register_labels]
"0" = "led_bank"
"4" = "brightness"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("port = %q, want /dev/ttyACM0", cfg.Port)
	}
	if cfg.Baud != 921600 {
		t.Errorf("baud = %d, want 921600", cfg.Baud)
	}
	if cfg.URL != "wss://probe.local/stream" {
		t.Errorf("url = %q", cfg.URL)
	}
	if cfg.TickHz != 50_000_000 {
		t.Errorf("tick_hz = %d, want 50000000", cfg.TickHz)
	}
	if got := registerLabel(cfg, 0); got != "led_bank" {
		t.Errorf("registerLabel(0) = %q, want led_bank", got)
	}
	if got := registerLabel(cfg, 4); got != "brightness" {
		t.Errorf("registerLabel(4) = %q, want brightness", got)
	}
	// Addresses without an override keep the design name
	if got := registerLabel(cfg, 2); got != "en_reg_pwm_7_0" {
		t.Errorf("registerLabel(2) = %q, want en_reg_pwm_7_0", got)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfigFile(t, `
baud = 9600
bandwidth = "wide"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() accepted an unknown key")
	}
	if !strings.Contains(err.Error(), "bandwidth") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "negative baud",
			contents: "baud = -1\n",
			wantErr:  "baud",
		},
		{
			name:     "zero baud",
			contents: "baud = 0\n",
			wantErr:  "baud",
		},
		{
			name:     "negative tick rate",
			contents: "tick_hz = -5\n",
			wantErr:  "tick_hz",
		},
		{
			name:     "bad url scheme",
			contents: "url = \"http://probe.local\"\n",
			wantErr:  "ws://",
		},
		{
			name:     "label address out of range",
			contents: "[register_labels]\n\"9\" = \"nope\"\n",
			wantErr:  "register_labels",
		},
		{
			name:     "label key not numeric",
			contents: "[register_labels]\n\"duty\" = \"nope\"\n",
			wantErr:  "register_labels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.contents)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("LoadConfig() succeeded on missing file")
	}
}
