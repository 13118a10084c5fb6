// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package band

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"
)

// serialDevice talks to the band through its serial bridge dongle. The
// bridge speaks a plain line protocol:
//
//	device → host:  EUL,<roll>,<pitch>,<yaw>       (degrees, decimal)
//	                EMG,<b0>,<b1>,...              (raw ADC bytes)
//	host → device:  SUB,EUL | SUB,EMG | MOTOR,0|1 | START | STOP
type serialDevice struct {
	portName string
	baudRate uint

	mu        sync.Mutex
	port      io.ReadWriteCloser
	streaming bool
	done      chan struct{}
}

// NewSerialDevice returns a Device backed by the band's serial bridge on
// the given port. Nothing is opened until Connect.
func NewSerialDevice(portName string, baudRate int) Device {
	return &serialDevice{portName: portName, baudRate: uint(baudRate)}
}

func (d *serialDevice) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port != nil {
		return nil
	}

	opts := serial.OpenOptions{
		PortName:              d.portName,
		BaudRate:              d.baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return fmt.Errorf("band serial open (%s): %w", d.portName, err)
	}
	d.port = port
	log.Printf("band: serial bridge opened on %s at %d baud", d.portName, d.baudRate)
	return nil
}

func (d *serialDevice) send(cmd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return fmt.Errorf("band: not connected")
	}
	if _, err := d.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("band serial write %q: %w", cmd, err)
	}
	return nil
}

func (d *serialDevice) SetMotor(on bool) error {
	if on {
		return d.send("MOTOR,1")
	}
	return d.send("MOTOR,0")
}

func (d *serialDevice) SetSubscription(kind Subscription) error {
	switch kind {
	case SubscriptionEuler:
		return d.send("SUB,EUL")
	case SubscriptionEMGRaw:
		return d.send("SUB,EMG")
	default:
		return fmt.Errorf("band: unknown subscription %v", kind)
	}
}

// StartStreaming asks the bridge to start emitting frames and spawns a
// reader goroutine that parses lines into Frames. The returned channel is
// closed on StopStreaming, Disconnect, or a read error.
func (d *serialDevice) StartStreaming() (<-chan Frame, error) {
	d.mu.Lock()
	if d.port == nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("band: not connected")
	}
	if d.streaming {
		d.mu.Unlock()
		return nil, fmt.Errorf("band: already streaming")
	}
	d.streaming = true
	d.done = make(chan struct{})
	port := d.port
	done := d.done
	d.mu.Unlock()

	if err := d.send("START"); err != nil {
		d.mu.Lock()
		d.streaming = false
		d.mu.Unlock()
		return nil, err
	}

	frames := make(chan Frame)
	go func() {
		defer close(frames)

		reader := bufio.NewReader(port)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				select {
				case <-done:
					// stopped on purpose, the error is the closed port
				default:
					log.Printf("band: serial read error: %v", err)
				}
				return
			}

			frame, err := ParseFrame(line)
			if err != nil {
				// noisy bridge or partial line, drop it
				continue
			}

			select {
			case frames <- frame:
			case <-done:
				return
			}
		}
	}()

	return frames, nil
}

func (d *serialDevice) StopStreaming() error {
	d.mu.Lock()
	if !d.streaming {
		d.mu.Unlock()
		return nil
	}
	d.streaming = false
	close(d.done)
	d.mu.Unlock()

	return d.send("STOP")
}

func (d *serialDevice) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	if err != nil {
		return fmt.Errorf("band serial close: %w", err)
	}
	return nil
}

// ParseFrame decodes one bridge line into a Frame. Unrecognized or
// malformed lines return an error and are dropped by the reader.
func ParseFrame(line string) (Frame, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Frame{}, fmt.Errorf("empty frame line")
	}

	fields := strings.Split(line, ",")
	switch fields[0] {
	case "EUL":
		if len(fields) != 4 {
			return Frame{}, fmt.Errorf("euler frame needs 3 angles, got %d fields", len(fields)-1)
		}
		values := make([]float64, 3)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return Frame{}, fmt.Errorf("euler frame field %d: %w", i, err)
			}
			values[i] = v
		}
		return Frame{Kind: FrameEuler, Values: values}, nil

	case "EMG":
		if len(fields) < 2 {
			return Frame{}, fmt.Errorf("emg frame carries no channels")
		}
		raw := make([]byte, 0, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
			if err != nil {
				return Frame{}, fmt.Errorf("emg frame field %d: %w", i, err)
			}
			raw = append(raw, byte(v))
		}
		return Frame{Kind: FrameEMG, Raw: raw}, nil

	default:
		return Frame{}, fmt.Errorf("unknown frame tag %q", fields[0])
	}
}
