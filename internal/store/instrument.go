package store

import (
	"context"
	"log/slog"

	"jokerboard/internal/observability"
)

type instrumented struct {
	base    Store
	backend string
}

// Instrument wraps base with prometheus counters and error logging labelled
// by backend name.
func Instrument(base Store, backend string) Store {
	return &instrumented{base: base, backend: backend}
}

func (s *instrumented) record(ctx context.Context, op, key string, err error) {
	if err == nil {
		return
	}
	observability.StoreErrors.WithLabelValues(s.backend, op).Inc()
	observability.GlobalLogger.ErrorContext(ctx, "store operation failed",
		slog.String("backend", s.backend),
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

func (s *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	defer observability.TrackStore(s.backend, "get")()
	v, ok, err := s.base.Get(ctx, key)
	s.record(ctx, "get", key, err)
	return v, ok, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	defer observability.TrackStore(s.backend, "set")()
	err := s.base.Set(ctx, key, value)
	s.record(ctx, "set", key, err)
	return err
}

func (s *instrumented) Remove(ctx context.Context, key string) error {
	defer observability.TrackStore(s.backend, "remove")()
	err := s.base.Remove(ctx, key)
	s.record(ctx, "remove", key, err)
	return err
}

func (s *instrumented) Ping(ctx context.Context) error {
	return Ping(ctx, s.base)
}
