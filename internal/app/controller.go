// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
	"github.com/relabs-tech/band_control/internal/emg"
	"github.com/relabs-tech/band_control/internal/gesture"
)

// RunController streams the band, classifies every orientation sample,
// and prints the resulting commands. With finish enabled the roll-based
// terminating gate ends the session instead of the usual yaw commands.
func RunController(finish bool) error {
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

	if cfg.BandEMGLog {
		frames = logEMGFrames(frames)
	}

	pipe := gesture.Pipeline{Finish: finish}
	err = pipe.Run(ctx, frames, func(_ band.Sample, cmd gesture.Command) {
		switch cmd {
		case gesture.None:
			// quiet between gestures
		case gesture.Stop:
			fmt.Println("finish")
		default:
			fmt.Println(cmd)
		}
	})
	if errors.Is(err, context.Canceled) {
		log.Println("interrupted, shutting down")
		return nil
	}
	return err
}

// logEMGFrames passes every frame through and logs the amplitude of EMG
// frames on the way. Orientation frames are untouched.
func logEMGFrames(in <-chan band.Frame) <-chan band.Frame {
	out := make(chan band.Frame)
	go func() {
		defer close(out)
		for frame := range in {
			if frame.Kind == band.FrameEMG {
				uv, err := emg.ConvertRaw(emg.Widen(frame.Raw), emg.Bits8)
				if err != nil {
					log.Printf("emg convert: %v", err)
				} else {
					log.Printf("emg amplitude: %.2f", emg.Amplitude(uv))
				}
			}
			out <- frame
		}
	}()
	return out
}
