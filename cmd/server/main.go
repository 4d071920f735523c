package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/ffmarket/internal/api"
	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/config"
	"github.com/mcoot/ffmarket/internal/factory"
)

func main() {
	// Load configuration from .env and the environment
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, factory.ConfigFromEnv(cfg, logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	// Start background team creation
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start job queue: %w", err)
	}

	limiterCfg := middleware.DefaultRateLimitConfig()
	limiterCfg.PerSecond = cfg.IdentifyRatePerSec
	limiterCfg.Burst = cfg.IdentifyBurst
	limiterCfg.Clock = app.Clock

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		TeamService:     app.TeamService,
		PlayerService:   app.PlayerService,
		Catalog:         app.Catalog,
		Executor:        app.Executor,
		IdentifyLimiter: middleware.NewRateLimiter(limiterCfg),
		CORSOrigins:     cfg.CORSOrigins,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("cache", cfg.CacheType),
		slog.String("queue", cfg.QueueType),
	)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	}
}
