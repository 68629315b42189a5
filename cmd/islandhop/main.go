package main

import (
	"log"

	"github.com/MrSnakeDoc/islandhop/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ islandhop failed to start: %v", err)
	}
}
