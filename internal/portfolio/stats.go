package portfolio

import (
	"math"

	"portfolio-pulse/internal/rag"
)

// Snapshot is one project as the dashboard sees it.
type Snapshot struct {
	ProjectID string
	Tower     string
	// HasReport is false for projects without any weekly report.
	HasReport bool
	// Latest is the current-week health of the newest report.
	Latest    rag.Status
	Escalated bool
}

// Stats are the headline dashboard counts over projects with reports.
type Stats struct {
	GreenProjects int `json:"greenProjects"`
	AmberProjects int `json:"amberProjects"`
	RedProjects   int `json:"redProjects"`
	Escalations   int `json:"escalations"`
	TotalProjects int `json:"totalProjects"`
}

// ComputeStats counts latest health and escalations.
func ComputeStats(snaps []Snapshot) Stats {
	var s Stats
	for _, p := range snaps {
		if !p.HasReport {
			continue
		}
		s.TotalProjects++
		switch p.Latest {
		case rag.Green:
			s.GreenProjects++
		case rag.Amber:
			s.AmberProjects++
		case rag.Red:
			s.RedProjects++
		}
		if p.Escalated {
			s.Escalations++
		}
	}
	return s
}

// TowerPerformance is the colour split of one tower's projects.
type TowerPerformance struct {
	Name            string  `json:"name"`
	Green           int     `json:"green"`
	Amber           int     `json:"amber"`
	Red             int     `json:"red"`
	TotalProjects   int     `json:"totalProjects"`
	GreenPercentage float64 `json:"greenPercentage"`
	AmberPercentage float64 `json:"amberPercentage"`
	RedPercentage   float64 `json:"redPercentage"`
}

// Towers groups snapshots by tower in first-seen order. Projects without a
// tower are left out. Percentages are of reported projects, to one decimal.
func Towers(snaps []Snapshot) []TowerPerformance {
	index := map[string]int{}
	out := []TowerPerformance{}
	for _, p := range snaps {
		if p.Tower == "" {
			continue
		}
		i, ok := index[p.Tower]
		if !ok {
			i = len(out)
			index[p.Tower] = i
			out = append(out, TowerPerformance{Name: p.Tower})
		}
		t := &out[i]
		t.TotalProjects++
		if !p.HasReport {
			continue
		}
		switch p.Latest {
		case rag.Green:
			t.Green++
		case rag.Amber:
			t.Amber++
		case rag.Red:
			t.Red++
		}
	}
	for i := range out {
		t := &out[i]
		total := t.Green + t.Amber + t.Red
		if total == 0 {
			total = 1
		}
		t.GreenPercentage = percent(t.Green, total)
		t.AmberPercentage = percent(t.Amber, total)
		t.RedPercentage = percent(t.Red, total)
	}
	return out
}

func percent(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*1000) / 10
}
