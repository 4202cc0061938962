// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/rotation"
)

// Monitor connects a sample feed to a rotation detector and hands every
// rotation change to a sink.
type Monitor struct {
	detector *rotation.Detector
	feed     imu.SampleFeed
	display  rotation.Display

	mu      sync.Mutex
	enabled bool
}

// NewMonitor returns a disabled monitor. sink runs synchronously for each
// change, including the seed from the display rotation on Enable.
func NewMonitor(feed imu.SampleFeed, display rotation.Display, sink func(rotation.Event)) *Monitor {
	return &Monitor{
		feed:    feed,
		display: display,
		detector: rotation.NewDetector(func(deg int) {
			sink(rotation.NewEvent(deg, time.Now()))
		}),
	}
}

// Enable reports the display's current rotation and starts listening for
// samples.
func (m *Monitor) Enable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled {
		return nil
	}

	if err := m.detector.Enable(m.display); err != nil {
		return err
	}
	if err := m.feed.Register(m.onSample); err != nil {
		m.detector.Stop()
		return fmt.Errorf("register sample feed: %w", err)
	}
	m.enabled = true
	return nil
}

// Disable stops sample delivery. Detector state is kept for the next Enable.
func (m *Monitor) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	m.feed.Unregister()
	m.detector.Stop()
	m.enabled = false
}

// Bucket returns the last reported bucket.
func (m *Monitor) Bucket() rotation.Bucket {
	return m.detector.Bucket()
}

func (m *Monitor) onSample(s imu.Sample) {
	m.detector.OnSample(s.X, s.Y, s.Z)
}
