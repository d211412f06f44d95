package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"portfolio-pulse/internal/rag"
)

// ErrMalformedInput is returned when a sheet lacks a header row or any data row.
var ErrMalformedInput = errors.New("spreadsheet must have header row and at least one data row")

// Parser maps sheet rows onto Reports using a synonym table.
type Parser struct {
	columns Columns
}

// NewParser creates a Parser over cols.
func NewParser(cols Columns) *Parser {
	return &Parser{columns: cols}
}

// ParseRows parses rows with the built-in synonym table.
func ParseRows(rows [][]string) ([]Report, error) {
	return NewParser(DefaultColumns()).ParseRows(rows)
}

// ParseRows converts rows[0] (headers) and the rows after it into Reports.
//
// Rows whose cells are all empty are skipped. Retained rows are numbered from
// 1; that position names unnamed projects and stands in for a missing or
// unparseable week number.
func (p *Parser) ParseRows(rows [][]string) ([]Report, error) {
	if len(rows) < 2 {
		return nil, ErrMalformedInput
	}
	headers := rows[0]
	idx := p.resolve(headers)

	reports := make([]Report, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		pos := len(reports) + 1
		cell := func(f Field) string {
			i := idx[f]
			if i < 0 || i >= len(row) {
				return ""
			}
			return row[i]
		}

		r := Report{
			ProjectName:          strings.TrimSpace(cell(FieldProjectName)),
			WeekNumber:           parseWeek(cell(FieldWeekNumber), pos),
			HealthPreviousWeek:   rag.Normalize(cell(FieldHealthPreviousWeek)),
			HealthCurrentWeek:    rag.Normalize(cell(FieldHealthCurrentWeek)),
			UpdateForCurrentWeek: cell(FieldUpdateForCurrentWeek),
			PlanForNextWeek:      cell(FieldPlanForNextWeek),
			IssuesChallenges:     cell(FieldIssuesChallenges),
			PathToGreen:          cell(FieldPathToGreen),
			ResourcingStatus:     cell(FieldResourcingStatus),
			ClientEscalation:     cell(FieldClientEscalation),
			Tower:                cell(FieldTower),
			BillingModel:         cell(FieldBillingModel),
			FTE:                  cell(FieldFTE),
			Revenue:              cell(FieldRevenue),
		}
		if r.ProjectName == "" {
			r.ProjectName = fmt.Sprintf("Project %d", pos)
		}
		if strings.TrimSpace(r.ClientEscalation) == "" {
			r.ClientEscalation = NoEscalation
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// resolve looks every field up once per sheet.
func (p *Parser) resolve(headers []string) map[Field]int {
	out := make(map[Field]int, len(p.columns.synonyms))
	for f, syn := range p.columns.synonyms {
		out[f] = FindColumn(headers, syn)
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// parseWeek reads the leading integer of raw ("12", " 7th", "3.5" -> 3).
// Zero is a real week; only a value without digits falls back to def.
func parseWeek(raw string, def int) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}
