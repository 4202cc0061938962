// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"sync"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

// EventBroadcaster fans rotation events out to any number of listeners
// (websocket clients, the OLED loop). It keeps the most recent event so new
// subscribers start with the current rotation.
type EventBroadcaster struct {
	mu       sync.Mutex
	subs     map[int]chan rotation.Event
	nextID   int
	last     rotation.Event
	haveLast bool
}

func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		subs: make(map[int]chan rotation.Event),
	}
}

// Subscribe registers a listener. Slow listeners miss events rather than
// block the publisher.
func (b *EventBroadcaster) Subscribe(buffer int) (int, <-chan rotation.Event) {
	if buffer <= 0 {
		buffer = 4
	}
	ch := make(chan rotation.Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if b.haveLast {
		ch <- b.last
	}
	return id, ch
}

func (b *EventBroadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *EventBroadcaster) Publish(ev rotation.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = ev
	b.haveLast = true
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Last returns the most recent event, if any.
func (b *EventBroadcaster) Last() (rotation.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.haveLast
}

// Subscribers returns the number of active listeners.
func (b *EventBroadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
