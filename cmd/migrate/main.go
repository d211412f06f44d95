// Command migrate applies the embedded portfolio schema migrations and exits.
//
//	go run ./cmd/migrate
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-pulse/internal/shared/config"
	"portfolio-pulse/internal/shared/storage/db"
	"portfolio-pulse/internal/shared/telemetry"
)

const migrateTimeout = 5 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect.failed", map[string]any{"error": err.Error()})
		return 1
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		return 1
	}
	return 0
}
