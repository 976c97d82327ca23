package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusbingo/internal/config"
	"campusbingo/internal/di"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("media server: %v", err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	app, cleanup, err := di.InitializeMediaServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media server: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.MediaServicePort,
		Handler:           app.Server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Info("media server listening", "port", cfg.Server.MediaServicePort, "base_url", cfg.Server.MediaBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.Log.Info("shutting down media server")
	return srv.Shutdown(ctx)
}
