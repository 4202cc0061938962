// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

func TestEventBroadcaster_ReplaysLastOnSubscribe(t *testing.T) {
	b := NewEventBroadcaster()

	_, ok := b.Last()
	assert.False(t, ok)

	ev := rotation.Event{Degrees: 90, Bucket: "landscape_left"}
	b.Publish(ev)

	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)
	require.Equal(t, ev, <-ch)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, ev, last)
}

func TestEventBroadcaster_FanOutAndUnsubscribe(t *testing.T) {
	b := NewEventBroadcaster()
	id1, ch1 := b.Subscribe(2)
	id2, ch2 := b.Subscribe(2)
	require.Equal(t, 2, b.Subscribers())

	ev := rotation.Event{Degrees: 180, Bucket: "upside_down"}
	b.Publish(ev)
	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)

	b.Unsubscribe(id1)
	_, open := <-ch1
	assert.False(t, open, "channel should be closed after Unsubscribe")
	assert.Equal(t, 1, b.Subscribers())

	// Unknown and repeated ids are ignored.
	b.Unsubscribe(id1)
	b.Unsubscribe(42)
	b.Unsubscribe(id2)
	assert.Equal(t, 0, b.Subscribers())
}

func TestEventBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewEventBroadcaster()
	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)

	for deg := 0; deg < 360; deg += 90 {
		b.Publish(rotation.NewEvent(deg, testTime))
	}

	got := <-ch
	assert.Equal(t, 0, got.Degrees, "buffer keeps the first event, later ones are dropped")
	last, _ := b.Last()
	assert.Equal(t, 270, last.Degrees)
}
