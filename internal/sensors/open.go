// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"time"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/rotation"
)

// OpenSource opens the local sample source selected by SAMPLE_SOURCE.
// SAMPLE_SOURCE=mqtt has no local source; use NewMQTTFeed instead.
func OpenSource(cfg *config.Config) (imu.SampleSource, error) {
	switch cfg.SampleSource {
	case config.SourceMock:
		return NewMockSource(), nil
	case config.SourceMPU9250:
		return NewMPU9250Source(cfg.IMUSPIDevice, cfg.IMUCSPin)
	case config.SourceSerial:
		return NewSerialSource(cfg.SerialPort, cfg.SerialBaudRate)
	case config.SourceReplay:
		return LoadReplay(cfg.ReplayFile)
	default:
		return nil, fmt.Errorf("sensors: no local source for SAMPLE_SOURCE=%q", cfg.SampleSource)
	}
}

// FeedFor returns src itself when it pushes samples on its own (the serial
// source), otherwise a Poller reading it every interval.
func FeedFor(src imu.SampleSource, interval time.Duration) imu.SampleFeed {
	if feed, ok := src.(imu.SampleFeed); ok {
		return feed
	}
	return NewPoller(src, interval)
}

// SampleInterval returns the configured polling cadence.
func SampleInterval(cfg *config.Config) time.Duration {
	if cfg.SampleInterval <= 0 {
		return DefaultSampleInterval
	}
	return time.Duration(cfg.SampleInterval) * time.Millisecond
}

// DisplayFromConfig returns the display-rotation provider: the sysfs file
// when DISPLAY_ROTATION_FILE is set, otherwise the fixed DISPLAY_ROTATION.
func DisplayFromConfig(cfg *config.Config) rotation.Display {
	if cfg.DisplayRotationFile != "" {
		return FramebufferDisplay{Path: cfg.DisplayRotationFile}
	}
	return StaticDisplay{Degrees: cfg.DisplayRotation}
}
