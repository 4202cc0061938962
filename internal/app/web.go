// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/display_orientation/internal/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // served on the local network only
	},
}

const wsWriteTimeout = 5 * time.Second

func RunWeb() error {
	cfg := config.Get()
	b := NewEventBroadcaster()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeEvents(client, cfg.TopicRotation, "web", b.Publish); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, NewWebHandler(b, "web"))
}

// NewWebHandler serves the latest rotation as JSON, a websocket stream of
// rotation changes, and static files from staticDir.
func NewWebHandler(b *EventBroadcaster, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/rotation", func(w http.ResponseWriter, r *http.Request) {
		ev, ok := b.Last()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ev); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws/rotation", func(w http.ResponseWriter, r *http.Request) {
		handleRotationWS(b, w, r)
	})

	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

// handleRotationWS streams rotation events to one websocket client until it
// disconnects.
func handleRotationWS(b *EventBroadcaster, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id, events := b.Subscribe(8)
	defer b.Unsubscribe(id)

	// Reads only serve to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}
}
