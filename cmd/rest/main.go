package main

import (
	"context"
	"log"

	"pdf-chat-be/internal/bootstrap"
	"pdf-chat-be/internal/config"
	"pdf-chat-be/internal/server"
	"pdf-chat-be/internal/tracer"

	"github.com/fatih/color"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	color.Cyan("PDF Chat Backend")
	color.Green("Listening on port %s (%s)", cfg.App.Port, cfg.App.Environment)

	// 5. Run Server
	log.Fatal(srv.Run())
}
