package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/config"
)

// RunMonitorMQTT subscribes to the bridge topics and pretty-prints
// every pose and command it sees.
func RunMonitorMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMonitor)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("monitor: connected to MQTT broker at %s", cfg.MQTTBroker)

	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p band.Sample
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("monitor: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE] ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f\n",
			p.Roll, p.Pitch, p.Yaw,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("monitor: subscribed to %s", cfg.TopicPose)

	cmdToken := client.Subscribe(cfg.TopicCommand, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m commandMsg
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("monitor: command unmarshal error: %v", err)
			return
		}
		if m.Command == "" {
			return
		}

		fmt.Printf("[CMD ] %s\n", m.Command)
	})
	cmdToken.Wait()
	if cmdToken.Error() != nil {
		return cmdToken.Error()
	}
	log.Printf("monitor: subscribed to %s", cfg.TopicCommand)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("monitor: shutting down")
	client.Disconnect(250)
	return nil
}
