package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/bff/core/config"
	"basegraph.app/bff/core/db"
	"github.com/redis/go-redis/v9"
)

// Open builds the HistoryStore selected by cfg.History.Backend. A backend that
// is not configured or cannot be opened yields a store that reports
// ErrStoreUnavailable on use; Open itself only fails on an unknown backend.
// The returned func releases backend resources.
func Open(ctx context.Context, cfg config.Config) (HistoryStore, func(), error) {
	noop := func() {}

	switch cfg.History.Backend {
	case config.HistoryBackendPostgres:
		if !cfg.DB.Enabled() {
			slog.WarnContext(ctx, "history store not configured", "backend", cfg.History.Backend, "missing", "DATABASE_URL")
			return NewUnconfiguredStore("DATABASE_URL is not set"), noop, nil
		}
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			slog.ErrorContext(ctx, "failed to open postgres history store", "error", err)
			return NewUnconfiguredStore("postgres: " + err.Error()), noop, nil
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = database.Ping(pingCtx)
		cancel()
		if err != nil {
			slog.WarnContext(ctx, "postgres not reachable at startup, schema will be created on first use", "error", err)
		}
		return NewPostgresHistoryStore(database.Pool(), database.Migrate), database.Close, nil

	case config.HistoryBackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			slog.ErrorContext(ctx, "failed to open sqlite history store", "error", err, "path", cfg.SQLite.Path)
			return NewUnconfiguredStore("sqlite: " + err.Error()), noop, nil
		}
		return NewSQLiteHistoryStore(conn), func() { _ = conn.Close() }, nil

	case config.HistoryBackendRedis:
		if !cfg.Redis.Enabled() {
			slog.WarnContext(ctx, "history store not configured", "backend", cfg.History.Backend, "missing", "REDIS_URL")
			return NewUnconfiguredStore("REDIS_URL is not set"), noop, nil
		}
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			return NewUnconfiguredStore("redis: " + err.Error()), noop, nil
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not reachable at startup", "error", err)
		}
		return NewRedisHistoryStore(client, cfg.Redis.HistoryStream), func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unsupported history backend: %q", cfg.History.Backend)
	}
}
