package main

import (
	"log"

	"github.com/joho/godotenv"

	"sortserver/internal/app"
)

func main() {
	// Optional .env next to the binary; real deployments set env directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
