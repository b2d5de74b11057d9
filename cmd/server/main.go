// Command main is the entry point for the MODAM backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modam/internal/bootstrap"
	"modam/internal/config"
	"modam/internal/observability"
	"modam/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), observability.TracingOptions{
		ServiceName:  "modam-api",
		OTLPEndpoint: cfg.OTLPEndpoint,
		Stdout:       cfg.TracingStdoutExporter,
	})
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	}

	db, redisClient, store, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedDemoData: cfg.SeedDemoData,
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient, store)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if shutdownTracer != nil {
			if err := shutdownTracer(ctx); err != nil {
				log.Printf("Tracer shutdown error: %v", err)
			}
		}
	}()

	log.Fatal(srv.Start())
}
