// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/rotation"
	"github.com/relabs-tech/display_orientation/internal/sensors"
	"github.com/relabs-tech/display_orientation/internal/testutil"
)

func TestOpenFeed(t *testing.T) {
	client := testutil.NewFakeClient()

	t.Run("mqtt", func(t *testing.T) {
		cfg := config.Default()
		cfg.SampleSource = config.SourceMQTT
		feed, closer, err := openFeed(cfg, client)
		require.NoError(t, err)
		assert.IsType(t, &sensors.MQTTFeed{}, feed)
		assert.Nil(t, closer)
	})

	t.Run("replay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenario.yaml")
		require.NoError(t, os.WriteFile(path, []byte("samples:\n  - {x: 0, y: 9.8, z: 0}\n"), 0o644))

		cfg := config.Default()
		cfg.SampleSource = config.SourceReplay
		cfg.ReplayFile = path
		feed, _, err := openFeed(cfg, client)
		require.NoError(t, err)
		assert.IsType(t, &sensors.Poller{}, feed)
	})

	t.Run("missing replay file", func(t *testing.T) {
		cfg := config.Default()
		cfg.SampleSource = config.SourceReplay
		cfg.ReplayFile = filepath.Join(t.TempDir(), "nope.yaml")
		_, _, err := openFeed(cfg, client)
		require.Error(t, err)
	})
}

func TestRotationPublisher_PublishesRetainedJSON(t *testing.T) {
	client := testutil.NewFakeClient()
	publish := rotationPublisher(client, "inertial/rotation")

	ev := rotation.NewEvent(270, testTime)
	publish(ev)

	pubs := client.Published()
	require.Len(t, pubs, 1)
	assert.Equal(t, "inertial/rotation", pubs[0].Topic)
	assert.True(t, pubs[0].Retained)

	var got rotation.Event
	require.NoError(t, json.Unmarshal(pubs[0].Payload, &got))
	assert.Equal(t, ev, got)
	assert.Equal(t, "landscape_right", got.Bucket)
}

// Remote samples in, rotation events out, over one broker.
func TestDetectorPipeline_OverMQTT(t *testing.T) {
	client := testutil.NewFakeClient()
	feed := sensors.NewMQTTFeed(client, "inertial/accel")
	mon := NewMonitor(feed, sensors.StaticDisplay{Degrees: 0}, rotationPublisher(client, "inertial/rotation"))
	require.NoError(t, mon.Enable())
	defer mon.Disable()

	deliver := func(x, y, z float64) {
		payload, err := json.Marshal(imu.Sample{Source: "remote", X: x, Y: y, Z: z})
		require.NoError(t, err)
		client.Deliver("inertial/accel", payload)
	}
	deliver(0, 9.8, 0)
	deliver(0, 9.8, 0)
	deliver(9.8, 0, 0)
	client.Deliver("inertial/accel", []byte("garbage"))

	var got []int
	for _, p := range client.Published() {
		require.Equal(t, "inertial/rotation", p.Topic)
		var ev rotation.Event
		require.NoError(t, json.Unmarshal(p.Payload, &ev))
		got = append(got, ev.Degrees)
	}
	assert.Equal(t, []int{0, 0, 90}, got)

	// A late subscriber sees the retained current rotation.
	b := NewEventBroadcaster()
	require.NoError(t, subscribeEvents(client, "inertial/rotation", "test", b.Publish))
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 90, last.Degrees)
}
