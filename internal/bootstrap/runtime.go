// Package bootstrap wires the configured store backend for the server and the
// seed command.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"jokerboard/internal/config"
	"jokerboard/internal/database"
	"jokerboard/internal/observability"
	"jokerboard/internal/store"
	redispkg "jokerboard/pkg/redis"
)

// Runtime holds the opened backend and how to release it.
type Runtime struct {
	Store   store.Store
	Backend string
	closers []func() error
}

// Close releases every connection the runtime opened.
func (r *Runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// InitRuntime opens the store selected by cfg.StoreDriver and wraps it with
// metrics.
func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Backend: cfg.StoreDriver}

	var base store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		base = store.NewMemory()
	case config.DriverRedis:
		client, err := redispkg.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		r := store.NewRedis(client)
		rt.closers = append(rt.closers, r.Close)
		base = r
	case config.DriverSQLite, config.DriverPostgres:
		gdb, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		rt.closers = append(rt.closers, func() error { return database.Close(gdb) })
		s, err := store.NewSQL(gdb)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		base = s
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	rt.Store = store.Instrument(base, cfg.StoreDriver)
	observability.GlobalLogger.InfoContext(ctx, "store ready",
		slog.String("driver", cfg.StoreDriver),
		slog.String("scope", cfg.StoreScope),
	)
	return rt, nil
}
