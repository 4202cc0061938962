// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

// ReplayScenario is a scripted list of samples, usually loaded from YAML:
//
//	loop: true
//	samples:
//	  - {x: 0, y: 9.81, z: 0, repeat: 10}   # upright
//	  - {x: -9.81, y: 0, z: 0, repeat: 10}  # turned right
type ReplayScenario struct {
	Loop    bool         `yaml:"loop"`
	Samples []ReplayStep `yaml:"samples"`
}

// ReplayStep is one sample, emitted Repeat times (at least once).
type ReplayStep struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Repeat int     `yaml:"repeat"`
}

// ReplaySource plays back a scenario one sample per Next call.
type ReplaySource struct {
	mu       sync.Mutex
	scenario ReplayScenario
	step     int
	emitted  int
}

// LoadReplay reads a YAML scenario file.
func LoadReplay(path string) (*ReplaySource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	var sc ReplayScenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("replay: parse %s: %w", path, err)
	}
	return NewReplaySource(sc)
}

// NewReplaySource validates sc and returns a source positioned at its start.
func NewReplaySource(sc ReplayScenario) (*ReplaySource, error) {
	if len(sc.Samples) == 0 {
		return nil, fmt.Errorf("replay: scenario has no samples")
	}
	for i, st := range sc.Samples {
		if st.Repeat < 0 {
			return nil, fmt.Errorf("replay: sample %d: repeat must be >= 0, got %d", i, st.Repeat)
		}
	}
	return &ReplaySource{scenario: sc}, nil
}

// Next returns the next scripted sample, or io.EOF once a non-looping
// scenario is exhausted.
func (r *ReplaySource) Next() (imu.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.step >= len(r.scenario.Samples) {
		if !r.scenario.Loop {
			return imu.Sample{}, io.EOF
		}
		r.step = 0
		r.emitted = 0
	}

	st := r.scenario.Samples[r.step]
	r.emitted++
	if r.emitted >= max(st.Repeat, 1) {
		r.step++
		r.emitted = 0
	}

	return imu.Sample{
		Source: "replay",
		X:      st.X,
		Y:      st.Y,
		Z:      st.Z,
		Time:   time.Now(),
	}, nil
}
