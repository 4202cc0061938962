// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package testutil provides an in-memory MQTT client for tests.
//
// FakeClient behaves like a client connected to a private broker: Publish
// delivers synchronously to matching subscriptions on the same client and
// retained messages are replayed on Subscribe. Topic wildcards are not
// supported.
package testutil

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Published is a message recorded by FakeClient.Publish.
type Published struct {
	Topic    string
	Retained bool
	Payload  []byte
}

// FakeClient implements mqtt.Client. Methods that are not overridden panic
// through the nil embedded interface.
type FakeClient struct {
	mqtt.Client

	// SubscribeErr, when set, is returned by every Subscribe.
	SubscribeErr error

	mu        sync.Mutex
	connected bool
	handlers  map[string]mqtt.MessageHandler
	retained  map[string][]byte
	published []Published
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		handlers: make(map[string]mqtt.MessageHandler),
		retained: make(map[string][]byte),
	}
}

func (c *FakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return doneToken{}
}

func (c *FakeClient) Disconnect(uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

func (c *FakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *FakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = append([]byte(nil), p...)
	case string:
		b = []byte(p)
	default:
		return doneToken{err: fmt.Errorf("unsupported payload type %T", payload)}
	}

	c.mu.Lock()
	c.published = append(c.published, Published{Topic: topic, Retained: retained, Payload: b})
	if retained {
		c.retained[topic] = b
	}
	h := c.handlers[topic]
	c.mu.Unlock()

	if h != nil {
		h(c, &message{topic: topic, qos: qos, retained: retained, payload: b})
	}
	return doneToken{}
}

func (c *FakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.SubscribeErr != nil {
		return doneToken{err: c.SubscribeErr}
	}
	c.mu.Lock()
	c.handlers[topic] = callback
	last, ok := c.retained[topic]
	c.mu.Unlock()

	if ok && callback != nil {
		callback(c, &message{topic: topic, qos: qos, retained: true, payload: last})
	}
	return doneToken{}
}

func (c *FakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	for _, t := range topics {
		delete(c.handlers, t)
	}
	c.mu.Unlock()
	return doneToken{}
}

// Subscribed reports whether topic currently has a handler.
func (c *FakeClient) Subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.handlers[topic]
	return ok
}

// Published returns a copy of everything published so far.
func (c *FakeClient) Published() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Published(nil), c.published...)
}

// Deliver injects a message as if it had arrived from the broker.
func (c *FakeClient) Deliver(topic string, payload []byte) {
	c.mu.Lock()
	h := c.handlers[topic]
	c.mu.Unlock()
	if h != nil {
		h(c, &message{topic: topic, payload: payload})
	}
}

type doneToken struct {
	err error
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{}          { return closedCh }
func (t doneToken) Error() error                   { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return m.qos }
func (m *message) Retained() bool    { return m.retained }
func (m *message) Topic() string     { return m.topic }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Payload() []byte   { return m.payload }
func (m *message) Ack()              {}
