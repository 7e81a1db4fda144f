// Package store provides the flat key-value persistence the board keeps its
// collections in. Values are JSON text and every Set replaces the whole value.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys inside a namespace.
const (
	UsersKey   = "users"
	PostsKey   = "posts"
	SessionKey = "session"
	ThemeKey   = "theme"
)

// DefaultTheme is used when no theme has been stored.
const DefaultTheme = "dark"

// Store is the minimal key-value contract the repositories depend on.
// Get reports ok=false for an absent key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrCorrupt wraps a value that exists but cannot be decoded.
var ErrCorrupt = errors.New("stored value is corrupt")

// GetJSON attempts to get the key and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
// A value that fails to decode yields (false, err) with err wrapping ErrCorrupt.
func GetJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(b))
}

// Ping checks the backend if it supports it.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
