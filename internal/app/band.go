package app

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
)

const mockFrameInterval = 50 * time.Millisecond

// openBand builds the configured band device. Nothing is connected yet.
func openBand(cfg *config.Config) (band.Device, error) {
	switch cfg.BandSource {
	case "serial":
		return band.NewSerialDevice(cfg.BandSerialPort, cfg.BandBaudRate), nil
	case "mock":
		log.Println("using mock band device")
		return band.NewMockDevice(mockFrameInterval), nil
	default:
		return nil, fmt.Errorf("unknown band source %q", cfg.BandSource)
	}
}

// startSession connects the band, buzzes the motor so the wearer knows
// the session is live, selects the Euler stream, and starts streaming.
func startSession(dev band.Device) (<-chan band.Frame, error) {
	if err := dev.Connect(); err != nil {
		return nil, err
	}
	log.Println("connected to band")

	// Haptic handshake, fire-and-forget.
	if err := dev.SetMotor(true); err != nil {
		log.Printf("motor on: %v", err)
	}
	time.Sleep(time.Second)
	if err := dev.SetMotor(false); err != nil {
		log.Printf("motor off: %v", err)
	}
	time.Sleep(time.Second)

	if err := dev.SetSubscription(band.SubscriptionEuler); err != nil {
		dev.Disconnect()
		return nil, err
	}

	frames, err := dev.StartStreaming()
	if err != nil {
		dev.Disconnect()
		return nil, err
	}
	return frames, nil
}

// endSession performs the orderly shutdown: stop streaming first, then
// disconnect.
func endSession(dev band.Device) {
	if err := dev.StopStreaming(); err != nil {
		log.Printf("stop streaming: %v", err)
	}
	if err := dev.Disconnect(); err != nil {
		log.Printf("disconnect: %v", err)
	}
}
