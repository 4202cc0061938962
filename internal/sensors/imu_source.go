// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/display_orientation/internal/imu"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

type mpu9250Source struct {
	imu *mpu9250.MPU9250
}

// NewMPU9250Source initializes an MPU9250 over SPI and returns a source
// that reads its accelerometer. Values are raw counts; only their ratios
// matter for rotation detection.
func NewMPU9250Source(spiDev, csPin string) (imu.SampleSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("mpu9250: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: SPI transport (%s): %w", spiDev, err)
	}

	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: device creation: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: initialization: %w", err)
	}

	// Calibration only trims offsets; a failure still leaves a usable sensor.
	if err := dev.Calibrate(); err != nil {
		log.Printf("mpu9250: WARNING: calibration failed: %v", err)
	} else {
		log.Printf("mpu9250: calibration complete (%s)", spiDev)
	}

	return &mpu9250Source{imu: dev}, nil
}

// Next reads one accelerometer sample.
func (s *mpu9250Source) Next() (imu.Sample, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.Sample{}, fmt.Errorf("mpu9250 accel X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.Sample{}, fmt.Errorf("mpu9250 accel Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.Sample{}, fmt.Errorf("mpu9250 accel Z: %w", err)
	}

	return imu.Sample{
		Source: "mpu9250",
		X:      float64(ax),
		Y:      float64(ay),
		Z:      float64(az),
		Time:   time.Now(),
	}, nil
}
