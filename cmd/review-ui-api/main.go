package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adadev/review-ui-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting review-ui-api",
		"auth_mode", cfg.Auth.Mode,
		"github_base_url", cfg.GitHub.BaseURL,
		"http_addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
	)

	redisClient, err := bootstrap.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	engine, err := bootstrap.BuildEngine(ctx, bootstrap.EngineDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	// Re-establish a previous session from the persisted token before
	// serving. A failed rehydration is not fatal: the engine simply rests
	// signed out and the user signs in again.
	if err := engine.Lifecycle.Rehydrate(ctx); err != nil {
		logger.WarnContext(ctx, "session rehydration failed", "error", err)
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config: &cfg,
		Engine: engine,
		Logger: logger,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	return bootstrap.ShutdownHTTPServer(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
}
