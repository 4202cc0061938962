// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

// FramebufferRotatePath is where Linux exposes the framebuffer console
// rotation (0..3, quarter turns clockwise).
const FramebufferRotatePath = "/sys/class/graphics/fbcon/rotate"

// StaticDisplay reports a fixed rotation, typically from configuration.
type StaticDisplay struct {
	Degrees int
}

func (d StaticDisplay) Rotation() (rotation.DisplayRotation, error) {
	return rotation.RotationFromDegrees(d.Degrees)
}

// FramebufferDisplay reads the rotation code from a sysfs file.
type FramebufferDisplay struct {
	Path string
}

func (d FramebufferDisplay) Rotation() (rotation.DisplayRotation, error) {
	path := d.Path
	if path == "" {
		path = FramebufferRotatePath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read display rotation: %w", err)
	}
	return parseRotationCode(string(b))
}

func parseRotationCode(s string) (rotation.DisplayRotation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("display rotation empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse display rotation %q: %w", s, err)
	}
	r := rotation.DisplayRotation(n)
	if _, err := r.Degrees(); err != nil {
		return 0, err
	}
	return r, nil
}
