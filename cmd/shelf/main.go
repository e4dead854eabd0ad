package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/shelf/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ shelf failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ shelf stopped with error: %v", err)
	}
}
