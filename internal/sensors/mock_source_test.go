// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"testing"
	"time"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

func TestMockSource_VisitsEveryBucket(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	m := &mockSource{start: start, now: func() time.Time { return now }}

	seen := map[rotation.Bucket]bool{}
	b := rotation.Unset
	for i := 0; i < 400; i++ {
		now = start.Add(time.Duration(i) * 100 * time.Millisecond)
		s, err := m.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		angle, _ := rotation.RawAngleOf(s.X, s.Y, s.Z)
		b = rotation.Classify(angle, b)
		seen[b] = true
	}
	for _, want := range []rotation.Bucket{rotation.Portrait, rotation.LandscapeRight, rotation.UpsideDown, rotation.LandscapeLeft} {
		if !seen[want] {
			t.Fatalf("bucket %s never reached; seen=%v", want, seen)
		}
	}
}
