// Package server runs the HTTP API and its background workers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"techtree-backend/infrastructure/dataset"
	"techtree-backend/infrastructure/di"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests.
const ShutdownTimeout = 30 * time.Second

// Run serves the container's handler until ctx is cancelled, then drains
// connections. The dataset watcher runs alongside when enabled.
func Run(ctx context.Context, c *di.Container) error {
	cfg := c.Config
	logger := c.Logger

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           c.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Chat requests wait on the model.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var watcher *dataset.Watcher
	if cfg.WatchDataset {
		w, err := dataset.NewWatcher(cfg.DatasetPath, c.Dataset, logger)
		if err != nil {
			return err
		}
		watcher = w
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Uint64("dataset_revision", c.Dataset.Current().Revision()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	err := g.Wait()
	logger.Info("Server stopped")
	return err
}
