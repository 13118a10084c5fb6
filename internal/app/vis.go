// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
	"github.com/relabs-tech/band_control/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// visState is the payload pushed to every websocket subscriber and
// served from the JSON endpoint.
type visState struct {
	Pose    band.Sample `json:"pose"`
	Command string      `json:"command"`
}

// visHub fans classified samples out to websocket subscribers and keeps
// the latest state for the polling endpoint.
type visHub struct {
	mu        sync.RWMutex
	state     visState
	haveState bool
	subs      map[*websocket.Conn]struct{}
}

func newVisHub() *visHub {
	return &visHub{subs: make(map[*websocket.Conn]struct{})}
}

func (h *visHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.subs[conn] = struct{}{}
	h.mu.Unlock()
}

// publish updates the latest state and pushes it to every subscriber.
// A failed subscriber is dropped; the producer never blocks on it
// beyond the write itself.
func (h *visHub) publish(state visState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = state
	h.haveState = true

	for conn := range h.subs {
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("vis: dropping subscriber: %v", err)
			conn.Close()
			delete(h.subs, conn)
		}
	}
}

func (h *visHub) latest() (visState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.haveState
}

// RunVis streams the band and mirrors pose plus command to a local web
// visualization: a websocket push per sample and a static page under
// ./web that renders the model.
func RunVis() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := openBand(cfg)
	if err != nil {
		return err
	}

	frames, err := startSession(dev)
	if err != nil {
		return err
	}
	defer endSession(dev)

	hub := newVisHub()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("vis: websocket upgrade: %v", err)
			return
		}
		hub.add(conn)
	})
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		state, ok := hub.latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			log.Printf("vis: json encode error: %v", err)
		}
	})
	mux.Handle("/", http.FileServer(http.Dir("web")))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.VisServerPort),
		Handler: mux,
	}
	go func() {
		log.Printf("vis server listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("vis server: %v", err)
		}
	}()
	defer httpSrv.Shutdown(context.Background())

	pipe := gesture.Pipeline{}
	err = pipe.Run(ctx, frames, func(sample band.Sample, cmd gesture.Command) {
		hub.publish(visState{Pose: sample, Command: string(cmd)})
	})
	if errors.Is(err, context.Canceled) {
		log.Println("interrupted, shutting down")
		return nil
	}
	return err
}
