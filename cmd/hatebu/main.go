package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/hatebu/internal/app"
	"github.com/MrSnakeDoc/hatebu/internal/config"
)

func main() {
	config.LoadDotEnv()

	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ hatebu failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ hatebu failed: %v", err)
	}
}
