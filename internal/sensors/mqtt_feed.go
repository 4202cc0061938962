// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

// MQTTFeed receives JSON samples published by a remote sensor head.
type MQTTFeed struct {
	client mqtt.Client
	topic  string

	mu         sync.Mutex
	registered bool
}

// NewMQTTFeed returns a feed for topic on an already connected client.
func NewMQTTFeed(client mqtt.Client, topic string) *MQTTFeed {
	return &MQTTFeed{client: client, topic: topic}
}

// Register subscribes to the sample topic. paho delivers messages for a
// subscription in order from one goroutine, so fn is never run concurrently.
func (f *MQTTFeed) Register(fn func(imu.Sample)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registered {
		return fmt.Errorf("mqtt feed: already subscribed to %s", f.topic)
	}

	token := f.client.Subscribe(f.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := DecodeSample(msg.Payload())
		if err != nil {
			log.Printf("mqtt feed: %s: %v", msg.Topic(), err)
			return
		}
		fn(s)
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt feed: subscribe %s: %w", f.topic, err)
	}
	f.registered = true
	log.Printf("mqtt feed: subscribed to %s", f.topic)
	return nil
}

// Unregister drops the subscription.
func (f *MQTTFeed) Unregister() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.registered {
		return
	}
	token := f.client.Unsubscribe(f.topic)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("mqtt feed: unsubscribe %s: %v", f.topic, err)
	}
	f.registered = false
}

// DecodeSample parses a JSON sample payload.
func DecodeSample(payload []byte) (imu.Sample, error) {
	var s imu.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		return imu.Sample{}, fmt.Errorf("decode sample: %w", err)
	}
	return s, nil
}
