// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/display_orientation/internal/app"
	"github.com/relabs-tech/display_orientation/internal/config"
)

func main() {
	configPath := flag.String("config", "rotation_config.txt", "path to config file")
	flag.Parse()

	log.Println("starting accelerometer sample producer")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Note: SAMPLE_SOURCE=mpu9250 needs SPI access (sudo ./imu_producer)")

	if err := app.RunSampleProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
