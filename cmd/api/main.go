package main

import (
	"log"

	"github.com/Nick-Maximillien/autobooks-ai/internal/bootstrap"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/config"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting document relay on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
