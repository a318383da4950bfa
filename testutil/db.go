// Package testutil holds helpers for the integration tests that need a real
// Postgres or Redis. Each helper skips the calling test when its URL
// variable is unset.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for goose
)

// Environment variables naming the integration backends.
const (
	DatabaseURLEnv = "TEST_DATABASE_URL"
	RedisURLEnv    = "TEST_REDIS_URL"
)

// DatabaseURL returns the Postgres DSN or skips t.
func DatabaseURL(t *testing.T) string {
	t.Helper()
	return lookup(t, DatabaseURLEnv)
}

// RedisURL returns the Redis URL or skips t.
func RedisURL(t *testing.T) string {
	t.Helper()
	return lookup(t, RedisURLEnv)
}

// NewPool connects a pool for the contact log tests. It is closed when t
// finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, DatabaseURL(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a database/sql handle for goose. It is closed when t
// finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLDB(DatabaseURL(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// OpenSQLDB opens and pings dsn with the pgx driver. It is meant for
// TestMain, where there is no *testing.T. The caller closes the handle.
func OpenSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func lookup(t *testing.T, env string) string {
	t.Helper()
	v := os.Getenv(env)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", env)
	}
	return v
}
