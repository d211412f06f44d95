package portfolio

import (
	"fmt"
	"time"

	"portfolio-pulse/internal/rag"
)

// DatedReport is the part of a stored report the trend needs.
type DatedReport struct {
	ProjectID string
	CreatedAt time.Time
}

// TrendPoint counts reports by colour for one seven-day bucket.
type TrendPoint struct {
	Label       string    `json:"label"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Green       int       `json:"green"`
	Amber       int       `json:"amber"`
	Red         int       `json:"red"`
	Total       int       `json:"total"`
}

// Trend buckets history into weeks seven-day windows, oldest first, labelled
// W1..Wn. The newest window starts at midnight of now's day. Bucket bounds are
// inclusive and use now's location.
//
// A report is coloured by its project's status in statusByProject, not by the
// health recorded on the report, so older weeks show today's project status.
// Reports whose project is unknown are not counted.
func Trend(history []DatedReport, statusByProject map[string]rag.Status, weeks int, now time.Time) []TrendPoint {
	if weeks <= 0 {
		return []TrendPoint{}
	}
	out := make([]TrendPoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -7*i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		end := time.Date(day.Year(), day.Month(), day.Day()+6, 23, 59, 59, int(999*time.Millisecond), now.Location())

		p := TrendPoint{Label: fmt.Sprintf("W%d", weeks-i), PeriodStart: start, PeriodEnd: end}
		for _, r := range history {
			if r.CreatedAt.Before(start) || r.CreatedAt.After(end) {
				continue
			}
			switch statusByProject[r.ProjectID] {
			case rag.Green:
				p.Green++
			case rag.Amber:
				p.Amber++
			case rag.Red:
				p.Red++
			}
		}
		p.Total = p.Green + p.Amber + p.Red
		out = append(out, p)
	}
	return out
}
