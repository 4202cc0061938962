// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/display_orientation/internal/rotation"
	"github.com/relabs-tech/display_orientation/internal/sensors"
)

// RunMockConsole runs the detector against the mock source and prints
// rotation changes. No broker or hardware is needed.
func RunMockConsole(initialDegrees int) error {
	feed := sensors.NewPoller(sensors.NewMockSource(), 100*time.Millisecond)
	mon := NewMonitor(feed, sensors.StaticDisplay{Degrees: initialDegrees}, func(ev rotation.Event) {
		fmt.Println(formatEvent(ev))
	})
	if err := mon.Enable(); err != nil {
		return err
	}
	defer mon.Disable()

	waitForSignal()
	return nil
}
