package main

import (
	"flag"
	"log"
	"os"

	"HealthPulse/internal/di"
	"HealthPulse/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s cache=%s source=%s", cfg.Environment, cfg.Cache.Backend, cfg.WorldBank.BaseURL)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
