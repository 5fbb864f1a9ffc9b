// Package app assembles the directory service from configuration. Both the
// HTTP server and the terminal browser start here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/directory/internal/cache"
	"github.com/JonMunkholm/directory/internal/config"
	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/fetch"
	"github.com/JonMunkholm/directory/internal/service"
)

// App holds the assembled components.
type App struct {
	Service   *service.Service
	Presenter *directory.Presenter
	Fetcher   *fetch.Fetcher
	Cache     *cache.Cache

	closers []func()
}

// New builds the fetcher, cache store, service and presenter described by
// cfg. Close releases the cache store.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, &cfg.Cache)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cache = cache.New(store, cfg.Cache.TTL, cfg.Cache.KeyPrefix)
	a.Cache.Enabled = cfg.Cache.Enabled

	f := fetch.New(&http.Client{Timeout: cfg.Sheet.FetchTimeout}, cfg.Sheet.CSVURL)
	f.MaxAttempts = cfg.Sheet.MaxRetries
	f.RetryDelay = cfg.Sheet.RetryDelay
	f.MaxBodyBytes = cfg.Sheet.MaxBodyBytes
	a.Fetcher = f

	platforms, err := cfg.Social.Platforms()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load social platforms: %w", err)
	}
	a.Presenter = directory.NewPresenter(Platforms(platforms))

	a.Service = service.New(f, a.Cache, service.Options{
		PageSize:       cfg.App.PageSize,
		MaxAge:         cfg.Cache.TTL,
		QueryCacheSize: cfg.Cache.QueryCacheSize,
	})
	return a, nil
}

// openStore opens the key/value store for the configured cache backend.
func (a *App) openStore(ctx context.Context, cfg *config.CacheConfig) (cache.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "sqlite":
		s, err := cache.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		slog.Info("cache store opened", "backend", "sqlite", "path", cfg.SQLitePath)
		return s, nil

	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse database URL: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.DBMaxConns)
		poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		s, err := cache.NewPostgresStore(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("open postgres cache: %w", err)
		}
		slog.Info("cache store opened", "backend", "postgres", "max_conns", cfg.DBMaxConns)
		return s, nil
	}

	slog.Info("cache store opened", "backend", "memory")
	return cache.NewMemoryStore(), nil
}

// Close releases the cache store, newest resource first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Platforms converts configured social platforms to presenter platforms.
func Platforms(in []config.SocialPlatform) []directory.Platform {
	out := make([]directory.Platform, len(in))
	for i, p := range in {
		out[i] = directory.Platform{Column: p.Column, BaseURL: p.BaseURL}
	}
	return out
}
