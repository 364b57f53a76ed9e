package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hiring-service/internal/app"
	"hiring-service/internal/config"
	"hiring-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Fatal("invalid configuration", map[string]any{
			"error": err,
		})
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err,
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err,
			})
		}
	}()

	logger.Info("hiring-service started", map[string]any{
		"port":  cfg.AppPort,
		"oauth": cfg.OAuthEnabled(),
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err,
		})
	}

	logger.Info("hiring-service stopped", nil)
}
