package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-pulse/internal/bootstrap"
	"portfolio-pulse/internal/ingest"
	"portfolio-pulse/internal/shared/config"
	"portfolio-pulse/internal/shared/server"
	"portfolio-pulse/internal/shared/storage/db"
	"portfolio-pulse/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{})
	if err != nil {
		fatal("api.bootstrap.failed", err)
	}

	if app.DB != nil {
		if err := db.RunMigrations(ctx, app.DB); err != nil {
			fatal("api.migrations.failed", err)
		}
	}

	if cfg.IngestOnStart {
		go ingestOnStart(ctx, app.IngestService)
	}

	addr := server.Addr(cfg.Port)
	srv := &http.Server{Addr: addr, Handler: app.Router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("api.started", map[string]any{"addr": addr, "env": cfg.Env})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("api.server.failed", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Warn("api.shutdown.failed", map[string]any{"error": err.Error()})
		}
		if err := db.CloseSingleton(); err != nil {
			telemetry.Warn("api.db_close.failed", map[string]any{"error": err.Error()})
		}
		telemetry.Info("api.stopped", nil)
	}
}

// ingestOnStart loads whatever spreadsheets are already in the store.
func ingestOnStart(ctx context.Context, svc *ingest.Service) {
	resp, err := svc.RunBatch(ctx)
	switch {
	case errors.Is(err, ingest.ErrNoSourceFiles):
		telemetry.Info("api.ingest_on_start.empty", nil)
	case err != nil:
		telemetry.Warn("api.ingest_on_start.failed", map[string]any{"error": err.Error()})
	default:
		telemetry.Info("api.ingest_on_start.done", map[string]any{"projects_processed": resp.ProjectsProcessed})
	}
}

func fatal(event string, err error) {
	telemetry.Error(event, map[string]any{"error": err.Error()})
	telemetry.Sync()
	os.Exit(1)
}
