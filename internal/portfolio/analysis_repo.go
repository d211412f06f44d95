package portfolio

import (
	"context"
	"errors"
)

var ErrNoAnalysis = errors.New("no portfolio analysis")

// AnalysisRepo persists portfolio analyses.
type AnalysisRepo interface {
	Create(ctx context.Context, a Analysis) error
	Latest(ctx context.Context) (Analysis, error)
	// History returns up to limit analyses, newest first.
	History(ctx context.Context, limit int) ([]Analysis, error)
}
