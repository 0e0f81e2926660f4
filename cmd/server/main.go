package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/omega-events/omega-backend/internal/app"
	"github.com/omega-events/omega-backend/internal/config"
	"github.com/omega-events/omega-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	l := logger.New("omega-backend", cfg.LogLevel)
	slog.SetDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, l)
	if err != nil {
		l.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		l.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	l.Info("application stopped")
}
