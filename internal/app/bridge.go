package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
	"github.com/relabs-tech/band_control/internal/gesture"
)

// commandMsg is the MQTT payload for classified commands. The empty
// string means "no gesture".
type commandMsg struct {
	Command string `json:"command"`
}

// RunBridgeMQTT streams the band and republishes every pose and
// classified command to MQTT, retained, so monitors and displays can
// join at any time without touching the band or the TCP relay.
func RunBridgeMQTT() error {
	log.Println("starting band MQTT bridge")

	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDBridge)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	dev, err := openBand(cfg)
	if err != nil {
		return err
	}

	frames, err := startSession(dev)
	if err != nil {
		return err
	}
	defer endSession(dev)

	pipe := gesture.Pipeline{}
	err = pipe.Run(ctx, frames, func(sample band.Sample, cmd gesture.Command) {
		if payload, err := json.Marshal(sample); err != nil {
			log.Printf("pose marshal error: %v", err)
		} else if token := client.Publish(cfg.TopicPose, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (pose): %v", token.Error())
		}

		if payload, err := json.Marshal(commandMsg{Command: string(cmd)}); err != nil {
			log.Printf("command marshal error: %v", err)
		} else if token := client.Publish(cfg.TopicCommand, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (command): %v", token.Error())
		}
	})
	if errors.Is(err, context.Canceled) {
		log.Println("interrupted, shutting down")
		return nil
	}
	return err
}
