package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"portfolio-pulse/internal/rag"
)

type PGRepo struct {
	DB *sql.DB
}

const projectColumns = `id, name, code_id, account, customer, engagement_type, delivery_model,
  billing_model, importance, rag_status, scope_description, project_manager_id,
  delivery_manager_id, team_squad, tower, fte, revenue, start_date, planned_end_date,
  client_escalation, is_active, ai_monitoring_enabled, tags, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Project) error {
	tags, err := json.Marshal(nonNilTags(p.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	const query = `
INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.CodeID,
		p.Account,
		p.Customer,
		p.EngagementType,
		p.DeliveryModel,
		p.BillingModel,
		p.Importance,
		string(p.RAGStatus),
		p.ScopeDescription,
		nullableString(p.ProjectManagerID),
		nullableString(p.DeliveryManagerID),
		nullableString(p.TeamSquad),
		nullableString(p.Tower),
		nullableString(p.FTE),
		nullableString(p.Revenue),
		p.StartDate,
		p.PlannedEndDate,
		p.ClientEscalation,
		p.IsActive,
		p.AIMonitoringEnabled,
		tags,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 LIMIT 1`
	p, err := scanProject(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) FindByName(ctx context.Context, name string) (Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
WHERE lower(trim(name)) = lower(trim($1))
ORDER BY created_at ASC
LIMIT 1`
	p, err := scanProject(r.DB.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at ASC, id ASC`
	return r.query(ctx, query)
}

func (r *PGRepo) ListByManager(ctx context.Context, managerID string) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
WHERE project_manager_id = $1
ORDER BY created_at ASC, id ASC`
	return r.query(ctx, query, managerID)
}

func (r *PGRepo) Update(ctx context.Context, p Project) error {
	tags, err := json.Marshal(nonNilTags(p.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	const query = `
UPDATE projects SET
  name = $2, code_id = $3, account = $4, customer = $5, engagement_type = $6,
  delivery_model = $7, billing_model = $8, importance = $9, rag_status = $10,
  scope_description = $11, project_manager_id = $12, delivery_manager_id = $13,
  team_squad = $14, tower = $15, fte = $16, revenue = $17, start_date = $18,
  planned_end_date = $19, client_escalation = $20, is_active = $21,
  ai_monitoring_enabled = $22, tags = $23, updated_at = $24
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.CodeID,
		p.Account,
		p.Customer,
		p.EngagementType,
		p.DeliveryModel,
		p.BillingModel,
		p.Importance,
		string(p.RAGStatus),
		p.ScopeDescription,
		nullableString(p.ProjectManagerID),
		nullableString(p.DeliveryManagerID),
		nullableString(p.TeamSquad),
		nullableString(p.Tower),
		nullableString(p.FTE),
		nullableString(p.Revenue),
		p.StartDate,
		p.PlannedEndDate,
		p.ClientEscalation,
		p.IsActive,
		p.AIMonitoringEnabled,
		tags,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Project, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var ragStatus string
	var pmID, dmID, squad, tower, fte, revenue sql.NullString
	var tags []byte
	var updatedAt sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.CodeID,
		&p.Account,
		&p.Customer,
		&p.EngagementType,
		&p.DeliveryModel,
		&p.BillingModel,
		&p.Importance,
		&ragStatus,
		&p.ScopeDescription,
		&pmID,
		&dmID,
		&squad,
		&tower,
		&fte,
		&revenue,
		&p.StartDate,
		&p.PlannedEndDate,
		&p.ClientEscalation,
		&p.IsActive,
		&p.AIMonitoringEnabled,
		&tags,
		&p.CreatedAt,
		&updatedAt,
	); err != nil {
		return Project{}, err
	}
	p.RAGStatus = rag.Normalize(ragStatus)
	p.ProjectManagerID = pmID.String
	p.DeliveryManagerID = dmID.String
	p.TeamSquad = squad.String
	p.Tower = tower.String
	p.FTE = fte.String
	p.Revenue = revenue.String
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	} else {
		p.UpdatedAt = p.CreatedAt
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return Project{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	p.Tags = nonNilTags(p.Tags)
	return p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
