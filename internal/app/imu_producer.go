// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/sensors"
)

// RunSampleProducer reads the local accelerometer and publishes raw samples
// to TOPIC_ACCEL, for a detector running elsewhere with SAMPLE_SOURCE=mqtt.
func RunSampleProducer() error {
	log.Println("starting accelerometer sample producer")

	cfg := config.Get()
	if cfg.SampleSource == config.SourceMQTT {
		return fmt.Errorf("producer: SAMPLE_SOURCE=mqtt would republish its own input")
	}

	src, err := sensors.OpenSource(cfg)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	feed := sensors.FeedFor(src, sensors.SampleInterval(cfg))
	if err := feed.Register(samplePublisher(client, cfg.TopicAccel)); err != nil {
		return err
	}
	log.Printf("producer: publishing %s samples to %s", cfg.SampleSource, cfg.TopicAccel)

	waitForSignal()

	log.Println("producer: shutting down")
	feed.Unregister()
	return nil
}

func samplePublisher(client mqtt.Client, topic string) func(imu.Sample) {
	var count atomic.Uint64
	return func(s imu.Sample) {
		if err := publishJSON(client, topic, false, s); err != nil {
			log.Printf("producer: %v", err)
			return
		}
		if n := count.Add(1); n%25 == 1 {
			log.Printf("producer: %d samples published, last ax=%.3f ay=%.3f az=%.3f", n, s.X, s.Y, s.Z)
		}
	}
}
