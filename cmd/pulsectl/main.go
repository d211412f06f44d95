// Command pulsectl runs spreadsheet ingestion and reason mining locally,
// without a database or a model provider.
package main

import (
	"os"

	"portfolio-pulse/internal/shared/telemetry"
)

func main() {
	telemetry.Configure(os.Stderr, "warn")
	defer telemetry.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
