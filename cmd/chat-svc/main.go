package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusbingo/internal/chat/handler"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/di"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("chat service: %v", err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	app, cleanup, err := di.InitializeChatService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize chat service: %w", err)
	}
	defer cleanup()
	logger := app.Log

	if err := dbmysql.Migrate(app.DB); err != nil {
		return err
	}
	logger.Info("database migration completed")

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			common.LoggingInterceptor(logger),
			common.AuthInterceptor(app.Tokens),
		),
	)
	handler.RegisterChatServiceServer(grpcServer, app.Handler)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.Server.ChatServicePort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.Server.ChatServicePort, err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           app.HTTP.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "port", cfg.Server.ChatServicePort)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down chat service", "signal", sig.String())
	case serveErr = <-errCh:
		logger.Error("server failed", "error", serveErr)
	}

	healthServer.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("chat service stopped")
	return serveErr
}
