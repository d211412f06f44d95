package llmconfig

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const configColumns = `id, provider_name, model_name, api_key, base_url, is_active, last_updated_by, last_updated_at`

func (r *PGRepo) Activate(ctx context.Context, cfg Config) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE llm_configs SET is_active = false WHERE is_active`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
INSERT INTO llm_configs (`+configColumns+`)
VALUES ($1, $2, $3, $4, $5, true, $6, $7)`,
		cfg.ID,
		cfg.ProviderName,
		cfg.ModelName,
		cfg.APIKey,
		nullableString(cfg.BaseURL),
		nullableString(cfg.LastUpdatedBy),
		cfg.LastUpdatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) Active(ctx context.Context) (Config, error) {
	query := `SELECT ` + configColumns + ` FROM llm_configs
WHERE is_active
ORDER BY last_updated_at DESC
LIMIT 1`
	cfg, err := scanConfig(r.DB.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return Config{}, ErrNotFound
	}
	return cfg, err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Config, error) {
	query := `SELECT ` + configColumns + ` FROM llm_configs WHERE id = $1`
	cfg, err := scanConfig(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Config{}, ErrNotFound
	}
	return cfg, err
}

func (r *PGRepo) List(ctx context.Context) ([]Config, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+configColumns+` FROM llm_configs ORDER BY last_updated_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (Config, error) {
	var cfg Config
	var baseURL, updatedBy sql.NullString
	if err := row.Scan(
		&cfg.ID,
		&cfg.ProviderName,
		&cfg.ModelName,
		&cfg.APIKey,
		&baseURL,
		&cfg.IsActive,
		&updatedBy,
		&cfg.LastUpdatedAt,
	); err != nil {
		return Config{}, err
	}
	cfg.BaseURL = baseURL.String
	cfg.LastUpdatedBy = updatedBy.String
	return cfg, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
