// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadReplay_RepeatAndEOF(t *testing.T) {
	path := writeScenario(t, `
samples:
  - {x: 0, y: 9.81, z: 0, repeat: 2}
  - {x: -9.81, y: 0, z: 0}
`)
	src, err := LoadReplay(path)
	if err != nil {
		t.Fatalf("LoadReplay: %v", err)
	}

	wantX := []float64{0, 0, -9.81}
	for i, want := range wantX {
		s, err := src.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if s.X != want {
			t.Fatalf("sample %d X=%v want %v", i, s.X, want)
		}
		if s.Source != "replay" {
			t.Fatalf("source=%q", s.Source)
		}
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err=%v want EOF", err)
	}
}

func TestLoadReplay_Loop(t *testing.T) {
	path := writeScenario(t, "loop: true\nsamples:\n  - {x: 1}\n  - {x: 2}\n")
	src, err := LoadReplay(path)
	if err != nil {
		t.Fatalf("LoadReplay: %v", err)
	}
	var got []float64
	for i := 0; i < 5; i++ {
		s, err := src.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, s.X)
	}
	want := []float64{1, 2, 1, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}

func TestLoadReplay_Errors(t *testing.T) {
	if _, err := LoadReplay(writeScenario(t, "samples: []\n")); err == nil {
		t.Fatalf("expected error for empty scenario")
	}
	if _, err := LoadReplay(writeScenario(t, "samples:\n  - {x: 1, repeat: -1}\n")); err == nil {
		t.Fatalf("expected error for negative repeat")
	}
	if _, err := LoadReplay(writeScenario(t, "samples: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := LoadReplay(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
