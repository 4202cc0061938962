// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "time"

// Sample is a single raw accelerometer reading.
type Sample struct {
	Source string    `json:"source"` // "mpu9250", "serial", "mock", ...
	X      float64   `json:"x"`      // raw sensor units
	Y      float64   `json:"y"`
	Z      float64   `json:"z"`
	Time   time.Time `json:"time"`
}

// SampleSource is anything that can be polled for samples.
// Next returns io.EOF once the source has nothing more to give.
type SampleSource interface {
	Next() (Sample, error)
}

// SampleFeed pushes samples to a registered callback until unregistered.
// Callbacks are never invoked concurrently with each other.
type SampleFeed interface {
	Register(fn func(Sample)) error
	Unregister()
}
