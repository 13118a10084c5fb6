// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package band

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"
)

// mockDevice generates smooth synthetic orientation frames so the whole
// pipeline can run without a band on the desk.
type mockDevice struct {
	interval time.Duration

	mu        sync.Mutex
	connected bool
	streaming bool
	done      chan struct{}
}

// NewMockDevice creates a mock band emitting one Euler frame per
// interval.
func NewMockDevice(interval time.Duration) Device {
	return &mockDevice{interval: interval}
}

func (m *mockDevice) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	log.Println("band: mock device connected")
	return nil
}

func (m *mockDevice) SetMotor(on bool) error {
	if on {
		log.Println("band: mock motor buzz")
	}
	return nil
}

func (m *mockDevice) SetSubscription(kind Subscription) error {
	if kind != SubscriptionEuler {
		return fmt.Errorf("mock band only streams euler frames, got %v", kind)
	}
	return nil
}

func (m *mockDevice) StartStreaming() (<-chan Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil, fmt.Errorf("band: not connected")
	}
	if m.streaming {
		return nil, fmt.Errorf("band: already streaming")
	}
	m.streaming = true
	m.done = make(chan struct{})

	frames := make(chan Frame)
	done := m.done
	start := time.Now()

	go func() {
		defer close(frames)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				elapsed := time.Since(start).Seconds()
				frame := Frame{
					Kind: FrameEuler,
					Values: []float64{
						20 * math.Sin(elapsed),
						15 * math.Cos(elapsed*0.7),
						math.Mod(elapsed*30, 360),
					},
				}
				select {
				case frames <- frame:
				case <-done:
					return
				}
			}
		}
	}()

	return frames, nil
}

func (m *mockDevice) StopStreaming() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streaming {
		m.streaming = false
		close(m.done)
	}
	return nil
}

func (m *mockDevice) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}
