package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/enj100/oduel-auth-server/internal/app"
	"github.com/enj100/oduel-auth-server/internal/config"
	"github.com/enj100/oduel-auth-server/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("dev")
		logger.L().Fatal("invalid configuration", zap.Error(err))
	}

	logger.Init(cfg.AppEnv)
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	log.Info("verification gate started",
		zap.String("port", cfg.AppPort),
		zap.String("base_url", cfg.BaseURL),
	)

	<-ctx.Done()

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}

	log.Info("verification gate stopped cleanly")
}
