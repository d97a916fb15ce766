package main

import (
	"log"

	"github.com/Profanor/bullafric-fintech-api/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}
