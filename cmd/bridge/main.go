package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/band_control/internal/app"
	"github.com/relabs-tech/band_control/internal/config"
)

func main() {
	configPath := flag.String("config", "./band_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting band MQTT bridge (band → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunBridgeMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
