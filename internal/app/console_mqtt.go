// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/rotation"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	err = subscribeEvents(client, cfg.TopicRotation, "console", func(ev rotation.Event) {
		fmt.Println(formatEvent(ev))
	})
	if err != nil {
		return err
	}

	// Wait for Ctrl+C
	waitForSignal()

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatEvent(ev rotation.Event) string {
	return fmt.Sprintf("[ROT] %3d°  %-15s  %s", ev.Degrees, ev.Bucket, ev.Time)
}
