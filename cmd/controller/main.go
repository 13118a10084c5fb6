// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/band_control/internal/app"
	"github.com/relabs-tech/band_control/internal/config"
)

func main() {
	configPath := flag.String("config", "./band_config.txt", "path to configuration file")
	finish := flag.Bool("finish", false, "end the session on a large roll delta instead of steering with yaw")
	flag.Parse()

	log.Println("starting band controller")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunController(*finish); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
