package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/milkbook/milkbook/internal/platform/cache"
	"github.com/milkbook/milkbook/internal/platform/db"
	"github.com/milkbook/milkbook/internal/store"
)

// OpenStore connects the configured backend and loads every collection. The
// returned closer releases the backend connection.
func OpenStore(ctx context.Context, cfg *Config, logger *slog.Logger) (*store.Store, func(), error) {
	var (
		kv     store.KV
		closer = func() {}
	)
	backend := storeBackend(cfg)
	switch backend {
	case BackendRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		kv = store.NewRedisKV(client)
		closer = func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	case BackendPostgres:
		pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresKV(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		kv = pg
		closer = pool.Close
	case BackendMemory:
		kv = store.NewMemoryKV()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}

	st, err := store.Open(ctx, kv, store.WithPrefix(cfg.StorePrefix), store.WithLogger(logger))
	if err != nil {
		closer()
		return nil, nil, err
	}
	logger.Info("store opened", slog.String("backend", backend), slog.String("prefix", cfg.StorePrefix))
	return st, closer, nil
}
