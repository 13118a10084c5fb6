package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "band_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
# band
BAND_SOURCE = serial
BAND_SERIAL_PORT = /dev/ttyUSB0
BAND_BAUD_RATE = 115200

# relay
RELAY_HOST = localhost
RELAY_PORT = 5000
CLIENT_POLL_INTERVAL = 600

ACTUATOR = console
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BandSource != "serial" {
		t.Errorf("BandSource = %q, want serial", cfg.BandSource)
	}
	if cfg.BandSerialPort != "/dev/ttyUSB0" {
		t.Errorf("BandSerialPort = %q", cfg.BandSerialPort)
	}
	if cfg.BandBaudRate != 115200 {
		t.Errorf("BandBaudRate = %d", cfg.BandBaudRate)
	}
	if cfg.RelayPort != 5000 {
		t.Errorf("RelayPort = %d", cfg.RelayPort)
	}
	if got := cfg.RelayAddr(); got != "localhost:5000" {
		t.Errorf("RelayAddr = %q", got)
	}
	if got := cfg.RelayListenAddr(); got != ":5000" {
		t.Errorf("RelayListenAddr = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "BAND_SOURCE = mock\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RelayPort != 5000 {
		t.Errorf("default RelayPort = %d, want 5000", cfg.RelayPort)
	}
	if cfg.ClientPollInterval != 600 {
		t.Errorf("default ClientPollInterval = %d, want 600", cfg.ClientPollInterval)
	}
	if got := cfg.RelayAddr(); got != "localhost:5000" {
		t.Errorf("RelayAddr with no RELAY_HOST = %q, want localhost:5000", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			"unknown key",
			validConfig + "NOT_A_KEY = 1\n",
			"unknown config key",
		},
		{
			"missing separator",
			"BAND_SOURCE serial\n",
			"invalid config line",
		},
		{
			"bad band source",
			strings.Replace(validConfig, "BAND_SOURCE = serial", "BAND_SOURCE = bluetooth", 1),
			"BAND_SOURCE",
		},
		{
			"bad port number",
			strings.Replace(validConfig, "RELAY_PORT = 5000", "RELAY_PORT = no", 1),
			"invalid RELAY_PORT",
		},
		{
			"serial without port",
			"BAND_SOURCE = serial\n",
			"BAND_SERIAL_PORT is required",
		},
		{
			"serial without baud rate",
			"BAND_SOURCE = serial\nBAND_SERIAL_PORT = /dev/ttyUSB0\n",
			"BAND_BAUD_RATE is required",
		},
		{
			"rover without bus",
			validConfig + "ACTUATOR = rover\n",
			"ROVER_SERIAL_PORT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Fatalf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
