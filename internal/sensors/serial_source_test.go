// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/display_orientation/internal/imu"
)

// withChecksum frames an NMEA body as "$body*CS".
func withChecksum(body string) string {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return fmt.Sprintf("$%s*%02X", body, cs)
}

func xdrLine(x, y, z float64) string {
	return withChecksum(fmt.Sprintf("IIXDR,G,%g,,ACCX,G,%g,,ACCY,G,%g,,ACCZ", x, y, z)) + "\r\n"
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestNMEASource_FeedSkipsNoise(t *testing.T) {
	stream := strings.Join([]string{
		"garbage line",
		withChecksum("GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W"),
		"$IIXDR,G,1,,ACCX*00", // bad checksum
		withChecksum("IIXDR,G,0.12,,ACCX,G,9.78,,ACCY"), // missing Z
		withChecksum("IIXDR,G,0.12,,ACCX,G,9.78,,ACCY,G,-0.31,,ACCZ"),
		withChecksum("IIXDR,G,-9.81,,accx,G,0.00,,accy,G,0.50,,accz"),
	}, "\r\n") + "\r\n"

	src := newNMEASource("test", io.NopCloser(strings.NewReader(stream)))

	var got []imu.Sample
	if err := src.Register(func(s imu.Sample) { got = append(got, s) }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waitClosed(t, src.done, "end of stream")

	if len(got) != 2 {
		t.Fatalf("got %d samples want 2: %+v", len(got), got)
	}
	if got[0].X != 0.12 || got[0].Y != 9.78 || got[0].Z != -0.31 {
		t.Fatalf("sample=%+v", got[0])
	}
	if got[0].Source != "test" || got[0].Time.IsZero() {
		t.Fatalf("source=%q time=%v", got[0].Source, got[0].Time)
	}
	if got[1].X != -9.81 || got[1].Y != 0 || got[1].Z != 0.5 {
		t.Fatalf("sample=%+v", got[1])
	}

	if err := src.Register(func(imu.Sample) {}); err == nil {
		t.Fatalf("expected error on second Register")
	}
}

// Every sentence of a burst is delivered, none left queued behind.
func TestNMEASource_FeedKeepsUpWithBurst(t *testing.T) {
	pr, pw := io.Pipe()
	src := newNMEASource("test", pr)
	defer src.Close()

	ch := make(chan imu.Sample, 20)
	if err := src.Register(func(s imu.Sample) { ch <- s }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var burst strings.Builder
	for i := 1; i <= 10; i++ {
		burst.WriteString(xdrLine(float64(i), 0, 0))
	}
	go pw.Write([]byte(burst.String()))

	for i := 1; i <= 10; i++ {
		select {
		case s := <-ch:
			if s.X != float64(i) {
				t.Fatalf("sample %d X=%v", i, s.X)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("got %d samples want 10", i-1)
		}
	}
}

func TestNMEASource_NextReturnsNewest(t *testing.T) {
	var burst strings.Builder
	for i := 1; i <= 10; i++ {
		burst.WriteString(xdrLine(float64(i), 0, 0))
	}
	src := newNMEASource("test", io.NopCloser(strings.NewReader(burst.String())))

	// The first Next starts reading; let the whole burst land.
	first, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	waitClosed(t, src.done, "end of stream")

	last := first.X
	for {
		s, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if s.X <= last {
			t.Fatalf("X=%v not newer than %v", s.X, last)
		}
		last = s.X
	}
	if last != 10 {
		t.Fatalf("newest X=%v want 10", last)
	}
}

func TestNMEASource_LastLineWithoutNewline(t *testing.T) {
	stream := withChecksum("IIXDR,G,1,,ACCX,G,2,,ACCY,G,3,,ACCZ")
	src := newNMEASource("test", io.NopCloser(strings.NewReader(stream)))
	s, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if s.X != 1 || s.Y != 2 || s.Z != 3 {
		t.Fatalf("sample=%+v", s)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err=%v want EOF", err)
	}
}

// A device that never sends must not hold up shutdown.
func TestNMEASource_SilentPortUnregister(t *testing.T) {
	pr, _ := io.Pipe()
	src := newNMEASource("test", pr)

	feed := FeedFor(src, time.Millisecond)
	if feed != imu.SampleFeed(src) {
		t.Fatalf("FeedFor wrapped a push source: %T", feed)
	}
	if err := feed.Register(func(imu.Sample) {}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Polling the same source blocks inside Next.
	p := NewPoller(src, time.Millisecond)
	if err := p.Register(func(imu.Sample) {}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	unregistered := make(chan struct{})
	go func() {
		feed.Unregister()
		p.Unregister()
		close(unregistered)
	}()
	waitClosed(t, unregistered, "Unregister on a silent port")

	// Close unblocks the reader; the stream then reads as ended.
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	waitClosed(t, src.done, "read loop exit")
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err=%v want EOF after Close", err)
	}
}
