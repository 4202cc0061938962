// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"io"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/imu"
	"github.com/relabs-tech/display_orientation/internal/rotation"
	"github.com/relabs-tech/display_orientation/internal/sensors"
)

// RunDetector classifies accelerometer samples into display rotations and
// publishes each change to MQTT until interrupted.
func RunDetector() error {
	log.Println("starting rotation detector")

	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDetector)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("detector: connected to MQTT broker at %s", cfg.MQTTBroker)

	feed, closer, err := openFeed(cfg, client)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	mon := NewMonitor(feed, sensors.DisplayFromConfig(cfg), rotationPublisher(client, cfg.TopicRotation))
	if err := mon.Enable(); err != nil {
		return err
	}
	log.Printf("detector: reading %s samples, publishing to %s", cfg.SampleSource, cfg.TopicRotation)

	waitForSignal()

	log.Println("detector: shutting down")
	mon.Disable()
	return nil
}

// openFeed returns the sample feed selected by SAMPLE_SOURCE and, for
// sources that hold a device open, something to close on exit.
func openFeed(cfg *config.Config, client mqtt.Client) (imu.SampleFeed, io.Closer, error) {
	if cfg.SampleSource == config.SourceMQTT {
		return sensors.NewMQTTFeed(client, cfg.TopicAccel), nil, nil
	}

	src, err := sensors.OpenSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	closer, _ := src.(io.Closer)
	return sensors.FeedFor(src, sensors.SampleInterval(cfg)), closer, nil
}

func rotationPublisher(client mqtt.Client, topic string) func(rotation.Event) {
	return func(ev rotation.Event) {
		log.Printf("detector: rotation %d° (%s)", ev.Degrees, ev.Bucket)
		if err := publishJSON(client, topic, true, ev); err != nil {
			log.Printf("detector: %v", err)
		}
	}
}
