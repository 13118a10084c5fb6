package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/band_control/internal/actuator"
	"github.com/relabs-tech/band_control/internal/config"
	"github.com/relabs-tech/band_control/internal/relay"
)

const reconnectDelay = time.Second

// RunRelayClient polls the relay server on a fixed cadence and forwards
// each received command to the configured actuator. Any session failure
// tears the session down and the outer loop reconnects from scratch,
// indefinitely.
func RunRelayClient() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	act, err := buildActuator(ctx, cfg)
	if err != nil {
		return err
	}
	defer act.Close()

	poll := time.Duration(cfg.ClientPollInterval) * time.Millisecond

	for ctx.Err() == nil {
		if err := runSession(ctx, cfg.RelayAddr(), act, poll); err != nil {
			log.Printf("relay session failed: %v, retrying", err)
		}

		select {
		case <-ctx.Done():
		case <-time.After(reconnectDelay):
		}
	}

	log.Println("interrupted, shutting down")
	return nil
}

// runSession owns one relay connection: connect, then poll until the
// session dies or the context is cancelled.
func runSession(ctx context.Context, addr string, act actuator.Actuator, poll time.Duration) error {
	c, err := relay.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()
	log.Printf("connected to relay at %s", addr)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cmd, err := c.Poll()
			if err != nil {
				return err
			}
			if err := act.Apply(ctx, cmd); err != nil {
				log.Printf("actuator: %v", err)
			}
		}
	}
}

func buildActuator(ctx context.Context, cfg *config.Config) (actuator.Actuator, error) {
	switch cfg.Actuator {
	case "", "console":
		return actuator.Console{}, nil
	case "rover":
		return actuator.NewRover(ctx, cfg.RoverSerialPort, cfg.RoverLeftID, cfg.RoverRightID)
	default:
		return nil, fmt.Errorf("unknown actuator %q", cfg.Actuator)
	}
}
