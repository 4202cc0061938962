// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Sample source names accepted by SAMPLE_SOURCE.
const (
	SourceMock    = "mock"
	SourceMPU9250 = "mpu9250"
	SourceSerial  = "serial"
	SourceReplay  = "replay"
	SourceMQTT    = "mqtt"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDDetector string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicRotation string
	TopicAccel    string

	// Sampling
	SampleSource   string
	SampleInterval int // milliseconds

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// Serial accelerometer (NMEA XDR)
	SerialPort     string
	SerialBaudRate int

	// Replay
	ReplayFile string

	// Display rotation at startup: DISPLAY_ROTATION_FILE wins when set.
	DisplayRotation     int // degrees
	DisplayRotationFile string

	// Web Server
	WebServerPort int

	// OLED
	OLEDUpdateInterval int // milliseconds
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTClientIDDetector: "rotation-detector",
		MQTTClientIDProducer: "rotation-accel-producer",
		MQTTClientIDConsole:  "rotation-console-subscriber",
		MQTTClientIDWeb:      "rotation-web-subscriber",
		MQTTClientIDDisplay:  "rotation-display-subscriber",
		TopicRotation:        "inertial/rotation",
		TopicAccel:           "inertial/accel",
		SampleSource:         SourceMock,
		SampleInterval:       200,
		SerialBaudRate:       9600,
		WebServerPort:        8080,
		OLEDUpdateInterval:   500,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_DETECTOR":
		c.MQTTClientIDDetector = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ROTATION":
		c.TopicRotation = value
	case "TOPIC_ACCEL":
		c.TopicAccel = value

	// Sampling
	case "SAMPLE_SOURCE":
		c.SampleSource = strings.ToLower(value)
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("SAMPLE_INTERVAL must be > 0 ms, got %d", interval)
		}
		c.SampleInterval = interval

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		if rate <= 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE must be > 0, got %d", rate)
		}
		c.SerialBaudRate = rate

	// Replay
	case "REPLAY_FILE":
		c.ReplayFile = value

	// Display rotation
	case "DISPLAY_ROTATION":
		deg, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ROTATION %q: %w", value, err)
		}
		if deg != 0 && deg != 90 && deg != 180 && deg != 270 {
			return fmt.Errorf("DISPLAY_ROTATION must be 0, 90, 180 or 270, got %d", deg)
		}
		c.DisplayRotation = deg
	case "DISPLAY_ROTATION_FILE":
		c.DisplayRotationFile = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port <= 0 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port

	// OLED
	case "OLED_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OLED_UPDATE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("OLED_UPDATE_INTERVAL must be > 0 ms, got %d", interval)
		}
		c.OLEDUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicRotation == "" {
		return fmt.Errorf("TOPIC_ROTATION is required")
	}

	switch c.SampleSource {
	case SourceMock:
	case SourceMPU9250:
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required when SAMPLE_SOURCE=%s", SourceMPU9250)
		}
		if c.IMUCSPin == "" {
			return fmt.Errorf("IMU_CS_PIN is required when SAMPLE_SOURCE=%s", SourceMPU9250)
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when SAMPLE_SOURCE=%s", SourceSerial)
		}
	case SourceReplay:
		if c.ReplayFile == "" {
			return fmt.Errorf("REPLAY_FILE is required when SAMPLE_SOURCE=%s", SourceReplay)
		}
	case SourceMQTT:
		if c.TopicAccel == "" {
			return fmt.Errorf("TOPIC_ACCEL is required when SAMPLE_SOURCE=%s", SourceMQTT)
		}
	default:
		return fmt.Errorf("unknown SAMPLE_SOURCE %q", c.SampleSource)
	}
	return nil
}

// InitGlobal loads the configuration once for the whole process.
// Later calls are no-ops and return nil.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
