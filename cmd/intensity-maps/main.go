package main

import (
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-intensity-maps/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logging.Fatalf("intensity-maps: %v", err)
	}
}
