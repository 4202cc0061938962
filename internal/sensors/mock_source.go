// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

const standardGravity = 9.80665

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a source whose gravity vector turns slowly in the
// screen plane (one full turn every 40s) with a small wobble toward the
// screen normal, so every rotation is visited.
func NewMockSource() imu.SampleSource {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (imu.Sample, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()

	heading := 2 * math.Pi * elapsed / 40
	tilt := 0.3 * math.Sin(elapsed*0.7)

	return imu.Sample{
		Source: "mock",
		X:      -standardGravity * math.Sin(heading) * math.Cos(tilt),
		Y:      standardGravity * math.Cos(heading) * math.Cos(tilt),
		Z:      standardGravity * math.Sin(tilt),
		Time:   t,
	}, nil
}
