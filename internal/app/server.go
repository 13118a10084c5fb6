// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
	"github.com/relabs-tech/band_control/internal/gesture"
	"github.com/relabs-tech/band_control/internal/relay"
)

// RunRelayServer runs the classification pipeline continuously and
// serves the latest command to polling relay clients over TCP. The
// producer never waits on a session: it overwrites the shared cell and
// moves on.
func RunRelayServer() error {
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

	ln, err := net.Listen("tcp", cfg.RelayListenAddr())
	if err != nil {
		return err
	}
	log.Printf("relay server listening on %s", ln.Addr())

	srv := relay.NewServer()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx, ln)
	}()

	pipe := gesture.Pipeline{}
	err = pipe.Run(ctx, frames, func(_ band.Sample, cmd gesture.Command) {
		srv.SetCommand(cmd)
		if cmd != gesture.None {
			log.Println(cmd)
		}
	})

	stop()
	if serr := <-serveErr; serr != nil && !errors.Is(serr, context.Canceled) {
		log.Printf("relay serve: %v", serr)
	}

	if errors.Is(err, context.Canceled) {
		log.Println("interrupted, shutting down")
		return nil
	}
	return err
}
