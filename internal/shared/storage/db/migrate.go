package db

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"

	"portfolio-pulse/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	gooseSetup sync.Once
	gooseErr   error
)

func setupGoose() error {
	gooseSetup.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(goose.NopLogger())
		gooseErr = goose.SetDialect("postgres")
	})
	return gooseErr
}

// RunMigrations brings the portfolio schema up to date. A nil database is
// memory mode and has nothing to migrate.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := setupGoose(); err != nil {
		return err
	}
	before, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return err
	}
	after, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return err
	}
	telemetry.Info("db.migrated", map[string]any{"from_version": before, "to_version": after})
	return nil
}
