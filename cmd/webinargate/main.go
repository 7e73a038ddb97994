package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/pixeloid/hgye-webinar/internal/app"
	"github.com/pixeloid/hgye-webinar/internal/config"
)

func main() {
	// Optional; production reads real environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
