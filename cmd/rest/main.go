package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"paarth-be/internal/bootstrap"
	"paarth-be/internal/config"
	"paarth-be/internal/server"
	"paarth-be/internal/tracer"
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
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Println("Background: Starting Stats Consumer...")
		if err := container.StatsService.Consume(ctx); err != nil {
			log.Printf("Background Stats Consumer Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Session Maintenance...")
		container.Registry.Run(ctx, cfg.Relay.SweepInterval, cfg.Relay.PingInterval)
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server with graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Println("Shutdown signal received, notifying sessions...")
		cancel()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
	container.Logger.Sync()
}
