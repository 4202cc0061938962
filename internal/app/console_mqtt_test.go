// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"strings"
	"testing"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

func TestFormatEvent(t *testing.T) {
	line := formatEvent(rotation.NewEvent(90, testTime))
	for _, want := range []string{"[ROT]", " 90°", "landscape_left", "2026-03-01T12:00:00Z"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}
