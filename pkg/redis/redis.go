package redispkg

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

const defaultAddr = "redis:6379"

// ParseRedisURL splits a REDIS_URL-like string into address, password, db
// index and whether TLS was requested. Accepts either a plain `host:port` or
// a `redis://`/`rediss://` URL.
func ParseRedisURL(raw string) (addr, password string, db int, useTLS bool) {
	if raw == "" {
		return defaultAddr, "", 0, false
	}
	if !strings.HasPrefix(raw, "redis://") && !strings.HasPrefix(raw, "rediss://") {
		return raw, "", 0, false
	}

	addr = raw
	useTLS = strings.HasPrefix(raw, "rediss://")
	u, err := url.Parse(raw)
	if err != nil {
		return addr, "", 0, useTLS
	}
	addr = u.Host
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			password = pw
		}
	}
	if p := strings.Trim(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	return addr, password, db, useTLS
}

// Options builds redis options from a REDIS_URL-like string. It disables
// maintnotifications to avoid handshake attempts on servers that don't
// implement the subcommand.
func Options(raw string) *redis.Options {
	addr, password, db, useTLS := ParseRedisURL(raw)
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if useTLS {
		if parsed, err := redis.ParseURL(raw); err == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
	}
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}
	return opts
}

// NewClient builds a redis client and verifies the connection.
func NewClient(ctx context.Context, raw string) (*redis.Client, error) {
	client := redis.NewClient(Options(raw))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
