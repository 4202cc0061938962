// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package rotation

import "time"

// Event is a rotation change as published over MQTT and the web API.
type Event struct {
	Degrees int    `json:"degrees"`
	Bucket  string `json:"bucket"`
	Time    string `json:"time"` // RFC3339Nano, UTC
}

// NewEvent builds the event for a listener notification.
func NewEvent(degrees int, t time.Time) Event {
	b, _ := BucketForDegrees(degrees)
	return Event{
		Degrees: degrees,
		Bucket:  b.String(),
		Time:    t.UTC().Format(time.RFC3339Nano),
	}
}
