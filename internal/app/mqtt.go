// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/display_orientation/internal/rotation"
)

// connectMQTT connects with auto-reconnect. The returned client remembers
// its subscriptions and makes them again after every reconnect, since a
// clean session loses them on the broker side.
func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	sc := newSessionClient(nil)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("MQTT connection to %s lost: %v", broker, err)
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			sc.onConnect()
		})

	sc.Client = mqtt.NewClient(opts)
	if token := sc.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	return sc, nil
}

type subscription struct {
	qos     byte
	handler mqtt.MessageHandler
}

// sessionClient wraps an mqtt.Client and records live subscriptions.
type sessionClient struct {
	mqtt.Client

	connected atomic.Bool

	mu   sync.Mutex
	subs map[string]subscription
}

func newSessionClient(c mqtt.Client) *sessionClient {
	return &sessionClient{Client: c, subs: make(map[string]subscription)}
}

func (c *sessionClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()
	return c.Client.Subscribe(topic, qos, handler)
}

func (c *sessionClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	for _, t := range topics {
		delete(c.subs, t)
	}
	c.mu.Unlock()
	return c.Client.Unsubscribe(topics...)
}

// onConnect runs on every successful connect. The first one has nothing
// to restore.
func (c *sessionClient) onConnect() {
	if c.connected.CompareAndSwap(false, true) {
		return
	}
	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for t, s := range c.subs {
		subs[t] = s
	}
	c.mu.Unlock()

	log.Printf("MQTT reconnected, restoring %d subscription(s)", len(subs))
	for topic, s := range subs {
		token := c.Client.Subscribe(topic, s.qos, s.handler)
		go func(topic string) {
			if token.Wait() && token.Error() != nil {
				log.Printf("MQTT resubscribe %s: %v", topic, token.Error())
			}
		}(topic)
	}
}

// publishJSON publishes v on topic without waiting for delivery; it may be
// called from inside a paho message handler.
func publishJSON(client mqtt.Client, topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	token := client.Publish(topic, 0, retained, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (%s): %v", topic, token.Error())
		}
	}()
	return nil
}

// subscribeEvents subscribes to rotation events on topic and hands each
// decoded event to fn.
func subscribeEvents(client mqtt.Client, topic, component string, fn func(rotation.Event)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev rotation.Event
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("%s: rotation unmarshal error: %v", component, err)
			return
		}
		fn(ev)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to %s", component, topic)
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func waitForSignal() {
	ctx, stop := signalContext()
	defer stop()
	<-ctx.Done()
}
