// Package actuator interprets classified commands as domain effects:
// printing them, driving servos, or anything else downstream.
package actuator

import (
	"context"
	"fmt"

	"github.com/relabs-tech/band_control/internal/gesture"
)

// Actuator consumes one command per poll cycle.
type Actuator interface {
	Apply(ctx context.Context, cmd gesture.Command) error
	Close() error
}

// Console prints each command, the emg-test behavior.
type Console struct{}

func (Console) Apply(_ context.Context, cmd gesture.Command) error {
	if cmd == gesture.None {
		fmt.Println("(idle)")
		return nil
	}
	fmt.Println(cmd)
	return nil
}

func (Console) Close() error { return nil }
