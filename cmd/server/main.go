package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/directory/internal/app"
	"github.com/JonMunkholm/directory/internal/config"
	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
	"github.com/JonMunkholm/directory/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl", cfg.Cache.TTL,
		"page_size", cfg.App.PageSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise directory", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	server := web.NewServer(a.Service, a.Presenter, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Warm the dataset so the first page view does not wait on the sheet
	go func() {
		if _, err := a.Service.Load(jobCtx); err != nil {
			slog.Warn("initial load failed", "error", err, "code", directory.MapError(err).Code)
		}
	}()
	go a.Service.StartAutoRefresh(jobCtx, cfg.App.AutoRefreshInterval)
	server.StartBackground(jobCtx)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
