// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/sensors"
	"github.com/relabs-tech/display_orientation/internal/testutil"
)

func TestSamplePublisher(t *testing.T) {
	client := testutil.NewFakeClient()
	publish := samplePublisher(client, "inertial/accel")

	for i := 0; i < 3; i++ {
		publish(imu.Sample{Source: "mock", X: float64(i), Y: 1, Z: 2, Time: testTime})
	}

	pubs := client.Published()
	if len(pubs) != 3 {
		t.Fatalf("published=%d want=3", len(pubs))
	}
	for i, p := range pubs {
		if p.Topic != "inertial/accel" || p.Retained {
			t.Fatalf("publish %d: topic=%q retained=%v", i, p.Topic, p.Retained)
		}
		s, err := sensors.DecodeSample(p.Payload)
		if err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
		if s.X != float64(i) || s.Source != "mock" || !s.Time.Equal(testTime) {
			t.Fatalf("publish %d: sample=%+v", i, s)
		}
	}
}
