package main

import (
	"context"
	"log"

	"deal-alert-be/internal/bootstrap"
	"deal-alert-be/internal/config"
	"deal-alert-be/internal/server"
	"deal-alert-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	// 3. Start Background Services
	ctx := context.Background()
	if err := container.RefreshConsumer.Consume(ctx); err != nil {
		log.Fatalf("Failed to start refresh consumer: %v", err)
	}
	go container.SchedulerService.Run(ctx)

	// 4. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
