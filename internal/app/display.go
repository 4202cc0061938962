// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/display_orientation/internal/config"
	"github.com/relabs-tech/display_orientation/internal/rotation"
)

const (
	oledWidth  = 128
	oledHeight = 64

	// arrow centre and half-length
	arrowX    = 108
	arrowY    = 32
	arrowSize = 10
)

// RunDisplay shows the current rotation on an SSD1306 OLED at the default
// I2C address.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: OLED initialized")

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	b := NewEventBroadcaster()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeEvents(client, cfg.TopicRotation, "display", b.Publish); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.OLEDUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	drawLoop(ctx, ticker.C, b, func(img *image1bit.VerticalLSB) error {
		return dev.Draw(dev.Bounds(), img, image.Point{})
	})

	log.Println("display: shutting down")
	if err := dev.Halt(); err != nil {
		log.Printf("display: halt: %v", err)
	}
	return nil
}

// drawLoop redraws on each tick when the latest event has changed, until
// ctx is done.
func drawLoop(ctx context.Context, tick <-chan time.Time, b *EventBroadcaster, draw func(*image1bit.VerticalLSB) error) {
	var (
		drawn     rotation.Event
		drawnHave bool
		first     = true
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		}

		ev, have := b.Last()
		if !first && have == drawnHave && ev == drawn {
			continue
		}
		if err := draw(renderRotation(ev, have)); err != nil {
			log.Printf("display: error updating display: %v", err)
			continue
		}
		first = false
		drawn, drawnHave = ev, have
	}
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func renderSplash() *image1bit.VerticalLSB {
	img, drawer := newFrame()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Display"))
	drawer.Dot = fixed.P(10, 43)
	drawer.DrawBytes([]byte("Orientation"))

	return img
}

// renderRotation draws the rotation in text plus an arrow pointing at the
// top edge of the rotated content.
func renderRotation(ev rotation.Event, have bool) *image1bit.VerticalLSB {
	img, drawer := newFrame()

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawBytes([]byte("Rotation"))

	if !have {
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
		return img
	}

	drawer.Dot = fixed.P(0, 30)
	drawer.DrawBytes([]byte(fmt.Sprintf("%3d deg", ev.Degrees)))
	drawer.Dot = fixed.P(0, 60)
	drawer.DrawBytes([]byte(ev.Bucket))

	drawArrow(img, ev.Degrees)
	return img
}

// drawArrow draws an upward arrow turned counterclockwise by degrees
// (0, 90, 180 or 270).
func drawArrow(img *image1bit.VerticalLSB, degrees int) {
	for v := -arrowSize; v <= arrowSize; v++ {
		for u := -arrowSize; u <= arrowSize; u++ {
			head := v <= -2 && abs(u) <= v+arrowSize
			shaft := v > -2 && abs(u) <= 1
			if !head && !shaft {
				continue
			}
			x, y := arrowX+u, arrowY+v
			switch degrees {
			case 90:
				x, y = arrowX+v, arrowY+u
			case 180:
				x, y = arrowX+u, arrowY-v
			case 270:
				x, y = arrowX-v, arrowY+u
			}
			img.SetBit(x, y, image1bit.On)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
