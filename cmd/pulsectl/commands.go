package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-pulse/internal/ingest"
	"portfolio-pulse/internal/narrative"
	"portfolio-pulse/internal/shared/config"
	"portfolio-pulse/internal/spreadsheet"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pulsectl",
		Short:        "Offline tools for weekly portfolio status spreadsheets",
		SilenceUsage: true,
	}
	root.AddCommand(newIngestCmd(), newNarrativeCmd())
	return root
}

func newIngestCmd() *cobra.Command {
	var (
		concurrency int
		useConfig   bool
	)
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Parse spreadsheets and print the batch response with deterministic summaries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := spreadsheet.DefaultColumns()
			if useConfig {
				cfg := config.Load()
				cols = cols.With(cfg.ColumnSynonyms)
				if concurrency <= 0 {
					concurrency = cfg.IngestConcurrency
				}
			}

			sources := make([]spreadsheet.Source, 0, len(args))
			for _, path := range args {
				if !spreadsheet.Supported(path) {
					return fmt.Errorf("%s: %w", path, ingest.ErrUnsupportedFile)
				}
				sources = append(sources, spreadsheet.FileSource(path))
			}

			svc := &ingest.Service{
				Parser:      spreadsheet.NewParser(cols),
				Concurrency: concurrency,
			}
			return writeJSON(cmd.OutOrStdout(), svc.Process(cmd.Context(), sources))
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "files parsed in parallel (0 uses the configured default)")
	cmd.Flags().BoolVar(&useConfig, "config", false, "apply CONFIG_FILE column synonyms and defaults")
	return cmd
}

type narrativeOutput struct {
	PrimaryRecommendation string            `json:"primaryRecommendation"`
	Metrics               narrative.Metrics `json:"metrics"`
	Summary               string            `json:"summary"`
	KeyRiskAreas          []string          `json:"keyRiskAreas"`
}

func newNarrativeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "narrative REASON...",
		Short: "Extract the recommendation and RAG counts from analysis reasoning",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason := strings.Join(args, " ")
			m := narrative.ExtractMetrics(reason)
			return writeJSON(cmd.OutOrStdout(), narrativeOutput{
				PrimaryRecommendation: narrative.PrimaryRecommendation(reason),
				Metrics:               m,
				Summary:               narrative.SummaryText(m),
				KeyRiskAreas:          narrative.KeyRiskAreas(reason),
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
