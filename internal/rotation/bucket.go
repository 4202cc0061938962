// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package rotation

import (
	"fmt"
	"math"
)

// Bucket is one of the four coarse device orientations, or Unset before
// the first classification.
type Bucket int

const (
	Unset Bucket = iota
	Portrait
	LandscapeRight
	UpsideDown
	LandscapeLeft
)

// Undefined is the raw angle reported when the device is too close to flat
// for a reliable reading.
const Undefined = -1

// bucketDegrees maps a bucket to the rotation reported to listeners.
var bucketDegrees = map[Bucket]int{
	Portrait:       0,
	LandscapeLeft:  90,
	UpsideDown:     180,
	LandscapeRight: 270,
}

// Degrees returns the canonical rotation for b. ok is false for Unset.
func (b Bucket) Degrees() (deg int, ok bool) {
	deg, ok = bucketDegrees[b]
	return deg, ok
}

func (b Bucket) String() string {
	switch b {
	case Unset:
		return "unset"
	case Portrait:
		return "portrait"
	case LandscapeRight:
		return "landscape_right"
	case UpsideDown:
		return "upside_down"
	case LandscapeLeft:
		return "landscape_left"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// BucketForDegrees is the inverse of Bucket.Degrees.
func BucketForDegrees(deg int) (Bucket, bool) {
	for b, d := range bucketDegrees {
		if d == deg {
			return b, true
		}
	}
	return Unset, false
}

// RawAngleOf converts an accelerometer sample into a heading in the screen
// plane, in whole degrees within [0, 360).
//
// The axes are negated first so the vector points "up" rather than along
// gravity. When the Z component dominates (Z² > 4·(X²+Y²)) the device is
// lying nearly flat and the result is Undefined with ok=false.
func RawAngleOf(x, y, z float64) (angle int, ok bool) {
	ax, ay, az := -x, -y, -z

	magnitude := ax*ax + ay*ay
	if 4*magnitude < az*az {
		return Undefined, false
	}

	deg := math.Atan2(-ay, ax) * 180.0 / math.Pi
	if math.IsNaN(deg) {
		return Undefined, false
	}

	// Round half up.
	angle = 90 - int(math.Floor(deg+0.5))
	for angle >= 360 {
		angle -= 360
	}
	for angle < 0 {
		angle += 360
	}
	return angle, true
}

// Classify places a raw angle into a bucket. Angles in the gaps between
// bands (10–80, 100–170, 190–260, 280–350) keep the previous bucket so a
// device held near a boundary does not flicker.
func Classify(angle int, previous Bucket) Bucket {
	switch {
	case angle == Undefined:
		return previous
	case angle < 10 || angle > 350:
		return Portrait
	case angle > 80 && angle < 100:
		return LandscapeRight
	case angle > 170 && angle < 190:
		return UpsideDown
	case angle > 260 && angle < 280:
		return LandscapeLeft
	default:
		return previous
	}
}
