package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/shared/telemetry"
)

// Viewer identifies who is asking for projects.
type Viewer struct {
	UserID string
	Role   string
}

const roleProjectManager = "project_manager"

// CreateInput carries the fields accepted when creating a project.
type CreateInput struct {
	Name                string     `json:"name"`
	CodeID              string     `json:"codeId"`
	Account             string     `json:"account"`
	Customer            string     `json:"customer"`
	EngagementType      string     `json:"engagementType"`
	DeliveryModel       string     `json:"deliveryModel"`
	BillingModel        string     `json:"billingModel"`
	Importance          string     `json:"projectImportance"`
	RAGStatus           string     `json:"ragStatus"`
	ScopeDescription    string     `json:"scopeDescription"`
	ProjectManagerID    string     `json:"projectManagerId"`
	DeliveryManagerID   string     `json:"deliveryManagerId"`
	TeamSquad           string     `json:"teamSquad"`
	Tower               string     `json:"tower"`
	FTE                 string     `json:"fte"`
	Revenue             string     `json:"revenue"`
	StartDate           *time.Time `json:"startDate"`
	PlannedEndDate      *time.Time `json:"plannedEndDate"`
	ClientEscalation    bool       `json:"clientEscalation"`
	IsActive            *bool      `json:"isActive"`
	AIMonitoringEnabled *bool      `json:"aiMonitoringEnabled"`
	Tags                []string   `json:"projectTags"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name                *string    `json:"name"`
	Importance          *string    `json:"projectImportance"`
	RAGStatus           *string    `json:"ragStatus"`
	ScopeDescription    *string    `json:"scopeDescription"`
	ProjectManagerID    *string    `json:"projectManagerId"`
	DeliveryManagerID   *string    `json:"deliveryManagerId"`
	TeamSquad           *string    `json:"teamSquad"`
	Tower               *string    `json:"tower"`
	FTE                 *string    `json:"fte"`
	Revenue             *string    `json:"revenue"`
	BillingModel        *string    `json:"billingModel"`
	PlannedEndDate      *time.Time `json:"plannedEndDate"`
	ClientEscalation    *bool      `json:"clientEscalation"`
	IsActive            *bool      `json:"isActive"`
	AIMonitoringEnabled *bool      `json:"aiMonitoringEnabled"`
	Tags                []string   `json:"projectTags"`
}

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create validates input, applies defaults and stores a new project.
func (s *Service) Create(ctx context.Context, in CreateInput) (Project, error) {
	if s == nil || s.Repo == nil {
		return Project{}, errors.New("projects service not configured")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	now := s.now()
	p := Project{
		ID:                  uuid.NewString(),
		Name:                name,
		CodeID:              strings.TrimSpace(in.CodeID),
		Account:             orDefault(in.Account, firstWord(name)),
		Customer:            orDefault(in.Customer, firstWord(name)),
		EngagementType:      orDefault(in.EngagementType, DefaultEngagementType),
		DeliveryModel:       orDefault(in.DeliveryModel, DefaultDeliveryModel),
		BillingModel:        orDefault(in.BillingModel, DefaultBillingModel),
		Importance:          orDefault(in.Importance, DefaultImportance),
		RAGStatus:           rag.Normalize(in.RAGStatus),
		ScopeDescription:    strings.TrimSpace(in.ScopeDescription),
		ProjectManagerID:    strings.TrimSpace(in.ProjectManagerID),
		DeliveryManagerID:   strings.TrimSpace(in.DeliveryManagerID),
		TeamSquad:           strings.TrimSpace(in.TeamSquad),
		Tower:               strings.TrimSpace(in.Tower),
		FTE:                 strings.TrimSpace(in.FTE),
		Revenue:             strings.TrimSpace(in.Revenue),
		StartDate:           now,
		PlannedEndDate:      now.AddDate(0, 0, 180),
		ClientEscalation:    in.ClientEscalation,
		IsActive:            true,
		AIMonitoringEnabled: true,
		Tags:                cleanTags(in.Tags),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate.UTC()
	}
	if in.PlannedEndDate != nil {
		p.PlannedEndDate = in.PlannedEndDate.UTC()
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.AIMonitoringEnabled != nil {
		p.AIMonitoringEnabled = *in.AIMonitoringEnabled
	}
	if p.CodeID == "" {
		p.CodeID = "PRJ-" + strings.ToUpper(p.ID[:6])
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Project{}, err
	}
	telemetry.Info("project.created", map[string]any{
		"project_id": p.ID,
		"code_id":    p.CodeID,
	})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	if s == nil || s.Repo == nil {
		return Project{}, errors.New("projects service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Project{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// FindByName returns the project whose name matches case-insensitively.
func (s *Service) FindByName(ctx context.Context, name string) (Project, error) {
	if s == nil || s.Repo == nil {
		return Project{}, errors.New("projects service not configured")
	}
	return s.Repo.FindByName(ctx, name)
}

// List returns every project, or only their own when the viewer is a project manager.
func (s *Service) List(ctx context.Context, viewer Viewer) ([]Project, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("projects service not configured")
	}
	var (
		list []Project
		err  error
	)
	if viewer.Role == roleProjectManager {
		list, err = s.Repo.ListByManager(ctx, viewer.UserID)
	} else {
		list, err = s.Repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Project{}
	}
	return list, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Project{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		p.Name = name
	}
	setString(&p.Importance, in.Importance)
	setString(&p.ScopeDescription, in.ScopeDescription)
	setString(&p.ProjectManagerID, in.ProjectManagerID)
	setString(&p.DeliveryManagerID, in.DeliveryManagerID)
	setString(&p.TeamSquad, in.TeamSquad)
	setString(&p.Tower, in.Tower)
	setString(&p.FTE, in.FTE)
	setString(&p.Revenue, in.Revenue)
	setString(&p.BillingModel, in.BillingModel)
	if in.RAGStatus != nil {
		p.RAGStatus = rag.Normalize(*in.RAGStatus)
	}
	if in.PlannedEndDate != nil {
		p.PlannedEndDate = in.PlannedEndDate.UTC()
	}
	if in.ClientEscalation != nil {
		p.ClientEscalation = *in.ClientEscalation
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.AIMonitoringEnabled != nil {
		p.AIMonitoringEnabled = *in.AIMonitoringEnabled
	}
	if in.Tags != nil {
		p.Tags = cleanTags(in.Tags)
	}
	p.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// firstWord returns the first space-separated word of name, or "Unknown".
func firstWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
