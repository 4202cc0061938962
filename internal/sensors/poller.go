// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

// DefaultSampleInterval matches the "normal" sensor delay tier.
const DefaultSampleInterval = 200 * time.Millisecond

// Poller turns a pull-style SampleSource into a SampleFeed by reading it on
// a fixed ticker. Samples are delivered from a single goroutine.
type Poller struct {
	src      imu.SampleSource
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{} // closed when the newest polling goroutine exits

	// held while fn runs; Unregister takes it to wait out a delivery
	deliverMu sync.Mutex
}

// NewPoller returns a poller reading src every interval.
func NewPoller(src imu.SampleSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Poller{src: src, interval: interval}
}

// Register starts polling and delivers each sample to fn.
func (p *Poller) Register(fn func(imu.Sample)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return errors.New("sensors: poller already registered")
	}

	ctx, cancel := context.WithCancel(context.Background())
	prev := p.done
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.run(ctx, fn, prev, done)
	return nil
}

// Unregister stops polling. Once it returns fn is not called again. It does
// not wait for a read blocked inside the source; that goroutine exits when
// the read returns. It is safe to call when not registered.
func (p *Poller) Unregister() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil

	// wait out a delivery in progress
	p.deliverMu.Lock()
	p.deliverMu.Unlock()
}

func (p *Poller) run(ctx context.Context, fn func(imu.Sample), prev, done chan struct{}) {
	defer close(done)

	// A previous goroutine may still be inside src.Next. Wait for it even
	// when cancelled so done keeps meaning "out of the source".
	if prev != nil {
		<-prev
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var errCount int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s, err := p.src.Next()
		if errors.Is(err, io.EOF) {
			log.Println("sensors: sample source exhausted, polling stopped")
			return
		}
		if err != nil {
			errCount++
			// Log the first failure and then every 50th to keep a dead sensor quiet.
			if errCount == 1 || errCount%50 == 0 {
				log.Printf("sensors: read error (%d so far): %v", errCount, err)
			}
			continue
		}

		if !p.deliver(ctx, fn, s) {
			return
		}
	}
}

func (p *Poller) deliver(ctx context.Context, fn func(imu.Sample), s imu.Sample) bool {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fn(s)
	return true
}
