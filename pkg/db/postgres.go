package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewDB creates a *sql.DB on the pgx driver from dsn, or from individual
// POSTGRES_* env vars when dsn is empty. It pings the database with a short
// timeout to verify connectivity.
func NewDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = dsnFromEnv()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func dsnFromEnv() string {
	user := getenvDefault("POSTGRES_USER", "user")
	pass := os.Getenv("POSTGRES_PASSWORD")
	name := getenvDefault("POSTGRES_DB", "jokerboard")
	host := getenvDefault("POSTGRES_HOST", "localhost")
	port := getenvDefault("POSTGRES_PORT", "5432")
	if pass == "" {
		// If no password is provided, use a DSN without password (local dev)
		return fmt.Sprintf("postgresql://%s@%s:%s/%s", user, host, port, name)
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", user, pass, host, port, name)
}

func getenvDefault(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}
