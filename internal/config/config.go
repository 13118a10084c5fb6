package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Band device
	BandSource     string // "serial" or "mock"
	BandSerialPort string
	BandBaudRate   int
	BandEMGLog     bool // log EMG frame amplitude in the controller

	// Relay
	RelayHost          string
	RelayPort          int
	ClientPollInterval int // milliseconds between get_cmd polls

	// Actuator
	Actuator        string // "console" or "rover"
	RoverSerialPort string
	RoverLeftID     int
	RoverRightID    int

	// MQTT
	MQTTBroker          string
	MQTTClientIDBridge  string
	MQTTClientIDMonitor string
	MQTTClientIDDisplay string

	// Topics
	TopicPose    string
	TopicCommand string

	// Visualization web server
	VisServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills the values that have a sensible historical
// default: the relay has always lived on port 5000, and the reference
// client polled at 600 ms.
func (c *Config) applyDefaults() {
	if c.RelayPort == 0 {
		c.RelayPort = 5000
	}
	if c.ClientPollInterval == 0 {
		c.ClientPollInterval = 600
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Band device
	case "BAND_SOURCE":
		if value != "serial" && value != "mock" {
			return fmt.Errorf("BAND_SOURCE must be \"serial\" or \"mock\", got %q", value)
		}
		c.BandSource = value
	case "BAND_SERIAL_PORT":
		c.BandSerialPort = value
	case "BAND_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BAND_BAUD_RATE %q: %w", value, err)
		}
		c.BandBaudRate = rate
	case "BAND_EMG_LOG":
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid BAND_EMG_LOG %q: %w", value, err)
		}
		c.BandEMGLog = val

	// Relay
	case "RELAY_HOST":
		c.RelayHost = value
	case "RELAY_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RELAY_PORT %q: %w", value, err)
		}
		c.RelayPort = port
	case "CLIENT_POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CLIENT_POLL_INTERVAL %q: %w", value, err)
		}
		c.ClientPollInterval = interval

	// Actuator
	case "ACTUATOR":
		if value != "console" && value != "rover" {
			return fmt.Errorf("ACTUATOR must be \"console\" or \"rover\", got %q", value)
		}
		c.Actuator = value
	case "ROVER_SERIAL_PORT":
		c.RoverSerialPort = value
	case "ROVER_LEFT_ID":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ROVER_LEFT_ID %q: %w", value, err)
		}
		c.RoverLeftID = id
	case "ROVER_RIGHT_ID":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ROVER_RIGHT_ID %q: %w", value, err)
		}
		c.RoverRightID = id

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_BRIDGE":
		c.MQTTClientIDBridge = value
	case "MQTT_CLIENT_ID_MONITOR":
		c.MQTTClientIDMonitor = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value

	// Visualization
	case "VIS_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid VIS_SERVER_PORT %q: %w", value, err)
		}
		c.VisServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.BandSource == "" {
		return fmt.Errorf("BAND_SOURCE is required")
	}
	if c.BandSource == "serial" && c.BandSerialPort == "" {
		return fmt.Errorf("BAND_SERIAL_PORT is required when BAND_SOURCE=serial")
	}
	if c.BandSource == "serial" && c.BandBaudRate == 0 {
		return fmt.Errorf("BAND_BAUD_RATE is required when BAND_SOURCE=serial")
	}
	if c.Actuator == "rover" && c.RoverSerialPort == "" {
		return fmt.Errorf("ROVER_SERIAL_PORT is required when ACTUATOR=rover")
	}
	return nil
}

// RelayAddr returns the host:port the relay client connects to.
func (c *Config) RelayAddr() string {
	host := c.RelayHost
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, c.RelayPort)
}

// RelayListenAddr returns the address the relay server binds.
func (c *Config) RelayListenAddr() string {
	return fmt.Sprintf(":%d", c.RelayPort)
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
