package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/odyssey-erp/stockdesk/cmd/stockdesk/cli"
	"github.com/odyssey-erp/stockdesk/internal/app"
	"github.com/odyssey-erp/stockdesk/internal/observability"
	"github.com/odyssey-erp/stockdesk/internal/spreadsheet"
	"github.com/odyssey-erp/stockdesk/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return cli.ExitUsage
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", slog.String("driver", cfg.StorageDriver), slog.Any("error", err))
		return cli.ExitUnexpected
	}
	store, err := state.Open(ctx, backend, state.Options{
		Logger:           logger,
		Metrics:          metrics,
		FallbackCategory: cfg.FallbackCategory,
	})
	if err != nil {
		_ = backend.Close()
		logger.Error("load state", slog.Any("error", err))
		return cli.ExitUnexpected
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage", slog.Any("error", err))
		}
	}()

	commands := cli.New(store, cli.Config{
		DisplayLocale:    cfg.DisplayLocale,
		SheetLocale:      spreadsheet.Locale(cfg.SheetLocale),
		FallbackCategory: cfg.FallbackCategory,
	}, logger)
	code := commands.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn("write metrics textfile", slog.String("path", cfg.MetricsTextfile), slog.Any("error", err))
	}
	return code
}
