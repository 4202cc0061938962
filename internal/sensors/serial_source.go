// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

// Transducer names carried in XDR sentences for each accelerometer axis.
const (
	xdrAccelX = "ACCX"
	xdrAccelY = "ACCY"
	xdrAccelZ = "ACCZ"
)

// nmeaSource reads accelerometer samples from NMEA 0183 XDR sentences, e.g.
//
//	$IIXDR,G,0.12,,ACCX,G,9.78,,ACCY,G,0.31,,ACCZ*hh
//
// A single goroutine reads the stream as fast as the device sends. While a
// feed callback is registered every sample goes to it as it arrives;
// otherwise only the newest sample is kept for Next.
type nmeaSource struct {
	name   string
	closer io.Closer
	reader *bufio.Reader

	start  sync.Once
	closed atomic.Bool
	latest chan imu.Sample // holds at most the newest unread sample
	done   chan struct{}   // closed when the read loop ends
	err    error           // read loop result, valid after done

	deliverMu sync.Mutex
	fn        func(imu.Sample)
}

// NewSerialSource opens portName and returns a source reading XDR
// accelerometer sentences from it. The source is also an imu.SampleFeed.
func NewSerialSource(portName string, baudRate int) (imu.SampleSource, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", portName, err)
	}
	log.Printf("serial: accelerometer port opened on %s at %d baud", portName, baudRate)

	return newNMEASource("serial", port), nil
}

func newNMEASource(name string, rc io.ReadCloser) *nmeaSource {
	return &nmeaSource{
		name:   name,
		closer: rc,
		reader: bufio.NewReader(rc),
		latest: make(chan imu.Sample, 1),
		done:   make(chan struct{}),
	}
}

// Register delivers every sample to fn from the read goroutine.
func (s *nmeaSource) Register(fn func(imu.Sample)) error {
	s.deliverMu.Lock()
	if s.fn != nil {
		s.deliverMu.Unlock()
		return fmt.Errorf("%s: already registered", s.name)
	}
	s.fn = fn
	s.deliverMu.Unlock()

	s.start.Do(func() { go s.readLoop() })
	return nil
}

// Unregister stops delivery. It waits for a callback in progress but never
// for the device; reading continues in the background until Close.
func (s *nmeaSource) Unregister() {
	s.deliverMu.Lock()
	s.fn = nil
	s.deliverMu.Unlock()
}

// Next returns the newest sample not returned before, blocking until one
// arrives. Older unread samples are dropped. After Close, or once the
// stream ends, it returns io.EOF or the read error.
func (s *nmeaSource) Next() (imu.Sample, error) {
	s.start.Do(func() { go s.readLoop() })

	select {
	case sample := <-s.latest:
		return sample, nil
	case <-s.done:
		select {
		case sample := <-s.latest:
			return sample, nil
		default:
			return imu.Sample{}, s.err
		}
	}
}

func (s *nmeaSource) Close() error {
	s.closed.Store(true)
	return s.closer.Close()
}

func (s *nmeaSource) readLoop() {
	defer close(s.done)
	for {
		sample, err := s.readSample()
		if err != nil {
			if s.closed.Load() {
				err = io.EOF
			}
			if !errors.Is(err, io.EOF) {
				log.Printf("%s: read error, stopping: %v", s.name, err)
			}
			s.err = err
			return
		}
		s.publish(sample)
	}
}

func (s *nmeaSource) publish(sample imu.Sample) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.fn != nil {
		s.fn(sample)
		return
	}
	// Only this goroutine sends, so after the drain the send cannot block.
	select {
	case <-s.latest:
	default:
	}
	s.latest <- sample
}

// readSample reads lines until a complete accelerometer sentence is found.
// Other sentence types and malformed lines are skipped.
func (s *nmeaSource) readSample() (imu.Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return imu.Sample{}, err
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, perr := nmea.Parse(line)
		if perr != nil {
			// noisy links produce partial sentences
			continue
		}
		if sentence.DataType() != nmea.TypeXDR {
			continue
		}

		sample, ok := sampleFromXDR(sentence.(nmea.XDR))
		if !ok {
			continue
		}
		sample.Source = s.name
		sample.Time = time.Now()
		return sample, nil
	}
}

// sampleFromXDR extracts the three accelerometer axes. ok is false unless
// all three are present.
func sampleFromXDR(x nmea.XDR) (imu.Sample, bool) {
	var sample imu.Sample
	var seen int
	for _, m := range x.Measurements {
		switch strings.ToUpper(m.TransducerName) {
		case xdrAccelX:
			sample.X = m.Value
			seen |= 1
		case xdrAccelY:
			sample.Y = m.Value
			seen |= 2
		case xdrAccelZ:
			sample.Z = m.Value
			seen |= 4
		}
	}
	return sample, seen == 7
}
