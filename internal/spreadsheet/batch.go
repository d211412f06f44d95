package spreadsheet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"portfolio-pulse/internal/shared/telemetry"
)

// FileResult records how one source in a batch fared.
type FileResult struct {
	Source  string
	Reports int
	Err     error
}

// BatchResult holds the reports of every file that parsed, in source order.
type BatchResult struct {
	Reports []Report
	Files   []FileResult
}

// Failed returns the files that produced an error.
func (b BatchResult) Failed() []FileResult {
	var out []FileResult
	for _, f := range b.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// ParseBatch parses sources with at most limit files in flight.
// A failing file is logged and recorded; it never stops the others.
func (p *Parser) ParseBatch(ctx context.Context, sources []Source, limit int) BatchResult {
	if limit <= 0 {
		limit = 1
	}
	parsed := make([][]Report, len(sources))
	files := make([]FileResult, len(sources))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			reports, err := p.ParseFile(ctx, src)
			files[i] = FileResult{Source: src.Name, Reports: len(reports), Err: err}
			if err != nil {
				telemetry.Error("ingest.file.failed", map[string]any{"file": src.Name, "err": err.Error()})
				return nil
			}
			parsed[i] = reports
			telemetry.Info("ingest.file.parsed", map[string]any{"file": src.Name, "reports": len(reports)})
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Files: files}
	for _, reports := range parsed {
		out.Reports = append(out.Reports, reports...)
	}
	return out
}
