// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package rotation

import "fmt"

// DisplayRotation is a display's rotation code: 0 for natural orientation,
// then 1, 2, 3 for each further quarter turn.
type DisplayRotation int

const (
	Rotation0 DisplayRotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Display provides the display's current rotation.
type Display interface {
	Rotation() (DisplayRotation, error)
}

var displayOrientations = map[DisplayRotation]int{
	Rotation0:   0,
	Rotation90:  90,
	Rotation180: 180,
	Rotation270: 270,
}

// Degrees returns the rotation in degrees.
func (r DisplayRotation) Degrees() (int, error) {
	deg, ok := displayOrientations[r]
	if !ok {
		return 0, fmt.Errorf("unknown display rotation code %d", int(r))
	}
	return deg, nil
}

// RotationFromDegrees returns the rotation code for 0, 90, 180 or 270.
func RotationFromDegrees(deg int) (DisplayRotation, error) {
	for r, d := range displayOrientations {
		if d == deg {
			return r, nil
		}
	}
	return 0, fmt.Errorf("display rotation must be 0, 90, 180 or 270, got %d", deg)
}
