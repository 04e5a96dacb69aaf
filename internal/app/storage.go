package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/stockdesk/internal/platform/cache"
	"github.com/odyssey-erp/stockdesk/internal/platform/db"
	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
	"github.com/odyssey-erp/stockdesk/internal/platform/sqlite"
)

// OpenBackend connects the document store selected by cfg.StorageDriver.
func OpenBackend(ctx context.Context, cfg *Config, logger *slog.Logger) (kv.Store, error) {
	switch cfg.StorageDriver {
	case DriverFile, "":
		return kv.NewFileStore(cfg.DataDir)
	case DriverMemory:
		logger.Warn("memory storage selected, state is lost on exit")
		return kv.NewMemoryStore(), nil
	case DriverSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case DriverRedis:
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		return cache.NewDocumentStore(client, cfg.RedisPrefix), nil
	case DriverPostgres:
		pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
		if err != nil {
			return nil, err
		}
		store, err := db.NewDocumentStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
