package portfolio

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"portfolio-pulse/internal/rag"
)

type PGAnalysisRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, analysis_date, overall_rag, reason, projects_analyzed, columns_used, llm_config_id, source`

func (r *PGAnalysisRepo) Create(ctx context.Context, a Analysis) error {
	analyzed, err := json.Marshal(a.ProjectsAnalyzed)
	if err != nil {
		return fmt.Errorf("marshal projects_analyzed: %w", err)
	}
	columns, err := json.Marshal(a.ColumnsUsed)
	if err != nil {
		return fmt.Errorf("marshal columns_used: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
INSERT INTO portfolio_analyses (`+analysisColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID,
		a.AnalysisDate,
		string(a.OverallRAG),
		a.Reason,
		analyzed,
		columns,
		nullableString(a.LLMConfigID),
		a.Source,
	)
	return err
}

func (r *PGAnalysisRepo) Latest(ctx context.Context) (Analysis, error) {
	list, err := r.History(ctx, 1)
	if err != nil {
		return Analysis{}, err
	}
	if len(list) == 0 {
		return Analysis{}, ErrNoAnalysis
	}
	return list[0], nil
}

func (r *PGAnalysisRepo) History(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+analysisColumns+` FROM portfolio_analyses
ORDER BY analysis_date DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Analysis
	for rows.Next() {
		var a Analysis
		var overall string
		var analyzed, columns []byte
		var configID sql.NullString
		if err := rows.Scan(&a.ID, &a.AnalysisDate, &overall, &a.Reason, &analyzed, &columns, &configID, &a.Source); err != nil {
			return nil, err
		}
		a.OverallRAG = rag.Normalize(overall)
		a.LLMConfigID = configID.String
		if len(analyzed) > 0 {
			if err := json.Unmarshal(analyzed, &a.ProjectsAnalyzed); err != nil {
				return nil, fmt.Errorf("decode projects_analyzed: %w", err)
			}
		}
		if len(columns) > 0 {
			if err := json.Unmarshal(columns, &a.ColumnsUsed); err != nil {
				return nil, fmt.Errorf("decode columns_used: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
