// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuator

import (
	"context"
	"fmt"
	"log"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/relabs-tech/band_control/internal/gesture"
)

// Servo positions for the wheel horns, raw STS units. centerPosition is
// the neutral horn position; throw is how far a drive command deflects
// from it.
const (
	centerPosition = 2048
	throw          = 600
	roverBaudRate  = 1_000_000
)

// Rover drives a two-wheel differential platform on Feetech STS servos.
// Each command maps to a pair of wheel targets; Stop drops torque so
// the platform can be moved by hand.
type Rover struct {
	bus     *feetech.Bus
	group   *feetech.ServoGroup
	leftID  int
	rightID int
	stopped bool
}

// NewRover opens the servo bus and enables torque on both wheels.
func NewRover(ctx context.Context, port string, leftID, rightID int) (*Rover, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: roverBaudRate,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("rover: open servo bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, leftID, rightID)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("rover: enable torque: %w", err)
	}

	log.Printf("rover: servo bus up on %s (wheels %d/%d)", port, leftID, rightID)
	return &Rover{bus: bus, group: group, leftID: leftID, rightID: rightID}, nil
}

// Apply maps a command to wheel targets. None recenters both wheels so
// the platform coasts to a halt.
func (r *Rover) Apply(ctx context.Context, cmd gesture.Command) error {
	if cmd == gesture.Stop {
		if r.stopped {
			return nil
		}
		if err := r.group.DisableAll(ctx); err != nil {
			return fmt.Errorf("rover: disable torque: %w", err)
		}
		r.stopped = true
		return nil
	}

	if r.stopped {
		if err := r.group.EnableAll(ctx); err != nil {
			return fmt.Errorf("rover: re-enable torque: %w", err)
		}
		r.stopped = false
	}

	var left, right int
	switch cmd {
	case gesture.Forward:
		left, right = centerPosition+throw, centerPosition-throw
	case gesture.Back:
		left, right = centerPosition-throw, centerPosition+throw
	case gesture.Left:
		left, right = centerPosition-throw, centerPosition-throw
	case gesture.Right:
		left, right = centerPosition+throw, centerPosition+throw
	default:
		left, right = centerPosition, centerPosition
	}

	targets := feetech.PositionMap{
		r.leftID:  left,
		r.rightID: right,
	}
	if err := r.group.SetPositions(ctx, targets); err != nil {
		return fmt.Errorf("rover: set wheel positions: %w", err)
	}
	return nil
}

// Close disables torque and releases the bus.
func (r *Rover) Close() error {
	if !r.stopped {
		if err := r.group.DisableAll(context.Background()); err != nil {
			log.Printf("rover: disable torque on close: %v", err)
		}
	}
	return r.bus.Close()
}
