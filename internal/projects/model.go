package projects

import (
	"time"

	"portfolio-pulse/internal/rag"
)

// Project is a delivery engagement tracked on the dashboard.
type Project struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	CodeID              string     `json:"codeId"`
	Account             string     `json:"account"`
	Customer            string     `json:"customer"`
	EngagementType      string     `json:"engagementType"`
	DeliveryModel       string     `json:"deliveryModel"`
	BillingModel        string     `json:"billingModel"`
	Importance          string     `json:"projectImportance"`
	RAGStatus           rag.Status `json:"ragStatus"`
	ScopeDescription    string     `json:"scopeDescription"`
	ProjectManagerID    string     `json:"projectManagerId,omitempty"`
	DeliveryManagerID   string     `json:"deliveryManagerId,omitempty"`
	TeamSquad           string     `json:"teamSquad,omitempty"`
	Tower               string     `json:"tower,omitempty"`
	FTE                 string     `json:"fte,omitempty"`
	Revenue             string     `json:"revenue,omitempty"`
	StartDate           time.Time  `json:"startDate"`
	PlannedEndDate      time.Time  `json:"plannedEndDate"`
	ClientEscalation    bool       `json:"clientEscalation"`
	IsActive            bool       `json:"isActive"`
	AIMonitoringEnabled bool       `json:"aiMonitoringEnabled"`
	Tags                []string   `json:"projectTags"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Default values applied to new projects.
const (
	DefaultImportance     = "Medium"
	DefaultEngagementType = "Development"
	DefaultDeliveryModel  = "Managed"
	DefaultBillingModel   = "T&M"
)
