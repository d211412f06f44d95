package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"portfolio-pulse/internal/shared/telemetry"
)

// Options size the connection pool for one kind of process.
type Options struct {
	// Label names the process in pool logs: "api", "worker" or "migrate".
	Label           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

const defaultPingTimeout = 5 * time.Second

var openDB = sql.Open

// DefaultServerOptions suits the API, where dashboard reads run concurrently
// with ingestion writes.
func DefaultServerOptions() Options {
	return Options{
		Label:           "api",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// DefaultWorkerOptions suits the queue worker. Batch persistence is
// serialised, so a handful of connections is plenty.
func DefaultWorkerOptions() Options {
	return Options{
		Label:           "worker",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxIdleTime: time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
		PingTimeout:     defaultPingTimeout,
	}
}

// DefaultMigrateOptions suits the one-shot migrate command.
func DefaultMigrateOptions() Options {
	return Options{
		Label:           "migrate",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// OptionsFromEnv applies DB_* overrides on top of defaults.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	envOverride("DB_MAX_OPEN_CONNS", strconv.Atoi, &opts.MaxOpenConns)
	envOverride("DB_MAX_IDLE_CONNS", strconv.Atoi, &opts.MaxIdleConns)
	envOverride("DB_CONN_MAX_LIFETIME", time.ParseDuration, &opts.ConnMaxLifetime)
	envOverride("DB_CONN_MAX_IDLE_TIME", time.ParseDuration, &opts.ConnMaxIdleTime)
	envOverride("DB_PING_TIMEOUT", time.ParseDuration, &opts.PingTimeout)
	return opts
}

func envOverride[T any](key string, parse func(string) (T, error), dst *T) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	val, err := parse(raw)
	if err != nil {
		telemetry.Warn("db.env.invalid", map[string]any{"key": key, "error": err.Error()})
		return
	}
	*dst = val
}

// Connect opens a pgx-backed pool and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	pool, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configurePool(pool, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := pool.Stats()
	telemetry.Info("db.connected", map[string]any{
		"process":  opts.Label,
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return pool, nil
}

func configurePool(pool *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	pool.SetMaxOpenConns(opts.MaxOpenConns)
	pool.SetMaxIdleConns(opts.MaxIdleConns)
	pool.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

var shared struct {
	mu sync.Mutex
	db *sql.DB
}

// GetSingleton returns the process-wide pool, connecting on first use.
// Concurrent callers wait for the first connection attempt; a failed attempt
// is retried by the next caller.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.db != nil {
		return shared.db, nil
	}
	pool, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	shared.db = pool
	return pool, nil
}

// CloseSingleton closes the process-wide pool, if one was opened.
func CloseSingleton() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.db == nil {
		return nil
	}
	err := shared.db.Close()
	shared.db = nil
	return err
}
