// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package rotation classifies accelerometer samples into coarse screen
// rotations (0, 90, 180, 270 degrees) and reports when the rotation changes.
package rotation

import (
	"fmt"
	"sync"
)

// Listener receives the rotation in degrees each time it changes.
type Listener func(degrees int)

// Detector turns a stream of accelerometer samples into rotation changes.
//
// Start, Stop and OnSample may be called from different goroutines; calls
// are serialized internally. The listener runs synchronously while the
// detector lock is held, so it must not call back into the same Detector.
type Detector struct {
	mu       sync.Mutex
	listener Listener
	enabled  bool

	lastRawAngle  int
	pendingBucket Bucket
	lastBucket    Bucket
}

// NewDetector returns a stopped detector that reports changes to l.
func NewDetector(l Listener) *Detector {
	if l == nil {
		l = func(int) {}
	}
	return &Detector{
		listener:     l,
		lastRawAngle: Undefined,
	}
}

// Start enables sample processing and immediately reports
// initialRotationDegrees, before any sample is looked at.
func (d *Detector) Start(initialRotationDegrees int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = true
	d.listener(initialRotationDegrees)
}

// Enable queries the display once for its current rotation and starts the
// detector with it.
func (d *Detector) Enable(display Display) error {
	r, err := display.Rotation()
	if err != nil {
		return fmt.Errorf("rotation: display rotation: %w", err)
	}
	deg, err := r.Degrees()
	if err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	d.Start(deg)
	return nil
}

// Stop makes the detector ignore samples until the next Start. Classification
// state is kept, so a later Start resumes where this one left off.
func (d *Detector) Stop() {
	d.mu.Lock()
	d.enabled = false
	d.mu.Unlock()
}

// Active reports whether the detector is between Start and Stop.
func (d *Detector) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Bucket returns the most recently reported bucket.
func (d *Detector) Bucket() Bucket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastBucket
}

// OnSample processes one raw accelerometer reading.
func (d *Detector) OnSample(x, y, z float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.enabled {
		return
	}

	angle, _ := RawAngleOf(x, y, z)
	if angle != d.lastRawAngle {
		d.lastRawAngle = angle
		d.pendingBucket = Classify(angle, d.pendingBucket)
	}

	if d.pendingBucket == d.lastBucket {
		return
	}
	d.lastBucket = d.pendingBucket
	if deg, ok := d.lastBucket.Degrees(); ok {
		d.listener(deg)
	}
}
