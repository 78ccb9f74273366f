package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"techtree-backend/infrastructure/config"
	"techtree-backend/infrastructure/di"
	"techtree-backend/interfaces/http/server"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	exitCode := 0
	if err := server.Run(ctx, container); err != nil {
		container.Logger.Error("Server exited with error", zap.Error(err))
		exitCode = 1
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
	if exitCode != 0 {
		cleanup()
		os.Exit(exitCode)
	}
}
