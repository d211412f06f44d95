package reports

import (
	"context"
	"database/sql"
	"errors"

	"portfolio-pulse/internal/rag"
)

type PGRepo struct {
	DB *sql.DB
}

const reportColumns = `id, project_id, reporting_date, week_number, publish_status,
  health_previous_week, health_current_week, client_escalation, update_for_current_week,
  plan_for_next_week, issues_challenges, path_to_green, resourcing_status,
  current_sdlc_phase, sqa_remarks, fte, revenue, tower, billing_model, ai_status,
  ai_assessment_description, submitted_by, created_at`

func (p *PGRepo) Create(ctx context.Context, r WeeklyReport) error {
	const query = `
INSERT INTO weekly_reports (` + reportColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := p.DB.ExecContext(ctx, query, reportArgs(r)...)
	return err
}

func (p *PGRepo) GetByID(ctx context.Context, id string) (WeeklyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM weekly_reports WHERE id = $1 LIMIT 1`
	r, err := scanReport(p.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return WeeklyReport{}, ErrNotFound
	}
	return r, err
}

func (p *PGRepo) List(ctx context.Context, projectID string) ([]WeeklyReport, error) {
	if projectID == "" {
		return p.query(ctx, `SELECT `+reportColumns+` FROM weekly_reports ORDER BY created_at ASC, seq ASC`)
	}
	return p.query(ctx, `SELECT `+reportColumns+` FROM weekly_reports
WHERE project_id = $1
ORDER BY created_at ASC, seq ASC`, projectID)
}

func (p *PGRepo) Update(ctx context.Context, r WeeklyReport) error {
	const query = `
UPDATE weekly_reports SET
  project_id = $2, reporting_date = $3, week_number = $4, publish_status = $5,
  health_previous_week = $6, health_current_week = $7, client_escalation = $8,
  update_for_current_week = $9, plan_for_next_week = $10, issues_challenges = $11,
  path_to_green = $12, resourcing_status = $13, current_sdlc_phase = $14,
  sqa_remarks = $15, fte = $16, revenue = $17, tower = $18, billing_model = $19,
  ai_status = $20, ai_assessment_description = $21, submitted_by = $22
WHERE id = $1`
	args := reportArgs(r)
	res, err := p.DB.ExecContext(ctx, query, args[:len(args)-1]...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PGRepo) ListAIAnalyzed(ctx context.Context) ([]WeeklyReport, error) {
	return p.query(ctx, `SELECT `+reportColumns+` FROM weekly_reports
WHERE ai_status IS NOT NULL AND ai_status <> ''
  AND ai_assessment_description IS NOT NULL AND ai_assessment_description <> ''
ORDER BY created_at DESC, seq DESC`)
}

func (p *PGRepo) query(ctx context.Context, query string, args ...any) ([]WeeklyReport, error) {
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WeeklyReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func reportArgs(r WeeklyReport) []any {
	return []any{
		r.ID,
		r.ProjectID,
		r.ReportingDate,
		r.WeekNumber,
		r.Published,
		nullableString(string(r.HealthPreviousWeek)),
		string(r.HealthCurrentWeek),
		nullableString(r.ClientEscalation),
		nullableString(r.UpdateForCurrentWeek),
		nullableString(r.PlanForNextWeek),
		nullableString(r.IssuesChallenges),
		nullableString(r.PathToGreen),
		nullableString(r.ResourcingStatus),
		nullableString(r.CurrentSDLCPhase),
		nullableString(r.SQARemarks),
		nullableString(r.FTE),
		nullableString(r.Revenue),
		nullableString(r.Tower),
		nullableString(r.BillingModel),
		nullableString(r.AIStatus),
		nullableString(r.AIAssessment),
		nullableString(r.SubmittedBy),
		r.CreatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (WeeklyReport, error) {
	var r WeeklyReport
	var week sql.NullInt64
	var published sql.NullBool
	var prev sql.NullString
	var curr string
	var escalation, update, plan, issues, path, resourcing, phase, sqa sql.NullString
	var fte, revenue, tower, billing, aiStatus, aiAssessment, submittedBy sql.NullString
	if err := row.Scan(
		&r.ID,
		&r.ProjectID,
		&r.ReportingDate,
		&week,
		&published,
		&prev,
		&curr,
		&escalation,
		&update,
		&plan,
		&issues,
		&path,
		&resourcing,
		&phase,
		&sqa,
		&fte,
		&revenue,
		&tower,
		&billing,
		&aiStatus,
		&aiAssessment,
		&submittedBy,
		&r.CreatedAt,
	); err != nil {
		return WeeklyReport{}, err
	}
	r.WeekNumber = int(week.Int64)
	r.Published = published.Bool
	r.HealthPreviousWeek = rag.Normalize(prev.String)
	r.HealthCurrentWeek = rag.Normalize(curr)
	r.ClientEscalation = escalation.String
	r.UpdateForCurrentWeek = update.String
	r.PlanForNextWeek = plan.String
	r.IssuesChallenges = issues.String
	r.PathToGreen = path.String
	r.ResourcingStatus = resourcing.String
	r.CurrentSDLCPhase = phase.String
	r.SQARemarks = sqa.String
	r.FTE = fte.String
	r.Revenue = revenue.String
	r.Tower = tower.String
	r.BillingModel = billing.String
	r.AIStatus = aiStatus.String
	r.AIAssessment = aiAssessment.String
	r.SubmittedBy = submittedBy.String
	return r, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
