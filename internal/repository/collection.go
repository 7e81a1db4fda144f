// Package repository implements typed read-modify-write access to the
// collections kept in the key-value store.
package repository

import (
	"context"
	"errors"

	"jokerboard/internal/models"
	"jokerboard/internal/observability"
	"jokerboard/internal/store"
)

// collection is one JSON array stored under a single key.
type collection[T any] struct {
	store store.Store
	key   string
	log   *observability.RepoLogger
}

func newCollection[T any](s store.Store, key string) collection[T] {
	return collection[T]{store: s, key: key, log: observability.NewRepoLogger(key)}
}

// load returns the stored items. An absent key is an empty collection and so
// is a value that no longer decodes.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	_, err := store.GetJSON(ctx, c.store, c.key, &items)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		c.log.LogCorrupt(ctx, err)
		return []T{}, nil
	case err != nil:
		c.log.LogError(ctx, err, "load")
		return nil, models.NewInternalError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := store.SetJSON(ctx, c.store, c.key, items); err != nil {
		c.log.LogError(ctx, err, "save")
		return models.NewInternalError(err)
	}
	return nil
}
