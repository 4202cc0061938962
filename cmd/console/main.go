// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/display_orientation/internal/app"
)

// console runs the detector on the mock source in-process; no broker or
// config file is needed.
func main() {
	initial := flag.Int("rotation", 0, "display rotation reported at start (0, 90, 180, 270)")
	flag.Parse()

	log.Println("starting display-orientation console (mock source)")

	if err := app.RunMockConsole(*initial); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
