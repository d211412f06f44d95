package spreadsheet

import "strings"

// Field names a canonical report column.
type Field string

const (
	FieldProjectName          Field = "projectName"
	FieldWeekNumber           Field = "weekNumber"
	FieldHealthPreviousWeek   Field = "healthPreviousWeek"
	FieldHealthCurrentWeek    Field = "healthCurrentWeek"
	FieldUpdateForCurrentWeek Field = "updateForCurrentWeek"
	FieldPlanForNextWeek      Field = "planForNextWeek"
	FieldIssuesChallenges     Field = "issuesChallenges"
	FieldPathToGreen          Field = "pathToGreen"
	FieldResourcingStatus     Field = "resourcingStatus"
	FieldClientEscalation     Field = "clientEscalation"
	FieldTower                Field = "tower"
	FieldBillingModel         Field = "billingModel"
	FieldFTE                  Field = "fte"
	FieldRevenue              Field = "revenue"
)

var defaultSynonyms = map[Field][]string{
	FieldProjectName:          {"Project Name", "Project", "Name"},
	FieldWeekNumber:           {"Week Number", "Week", "Week #"},
	FieldHealthPreviousWeek:   {"Health Previous Week", "Previous Health", "Last Week Health"},
	FieldHealthCurrentWeek:    {"Health Current Week", "Current Health", "This Week Health", "RAG Status", "Status"},
	FieldUpdateForCurrentWeek: {"Update Current Week", "Current Week Update", "This Week Update"},
	FieldPlanForNextWeek:      {"Plan Next Week", "Next Week Plan", "Plan for Next Week"},
	FieldIssuesChallenges:     {"Issues Challenges", "Issues", "Challenges", "Issues/Challenges"},
	FieldPathToGreen:          {"Path to Green", "Path Green", "Recovery Plan"},
	FieldResourcingStatus:     {"Resourcing Status", "Resources", "Resource Status"},
	FieldClientEscalation:     {"Client Escalation", "Escalation", "Client Issues"},
	FieldTower:                {"Tower", "Team Tower", "Tower Assignment"},
	FieldBillingModel:         {"Billing Model", "Billing", "Contract Type"},
	FieldFTE:                  {"FTE", "Full Time Equivalent", "Team Size"},
	FieldRevenue:              {"Revenue", "Contract Value", "Project Value"},
}

// Columns holds the header synonyms tried for each canonical field, most preferred first.
type Columns struct {
	synonyms map[Field][]string
}

// DefaultColumns returns the built-in synonym table.
func DefaultColumns() Columns {
	return Columns{synonyms: defaultSynonyms}
}

// With returns a copy whose synonym lists are extended by extra, keyed by field name.
// Extra synonyms are tried after the built-in ones. Unknown fields are ignored.
func (c Columns) With(extra map[string][]string) Columns {
	if len(extra) == 0 {
		return c
	}
	out := make(map[Field][]string, len(c.synonyms))
	for f, syn := range c.synonyms {
		out[f] = append([]string(nil), syn...)
	}
	for name, syn := range extra {
		f := Field(name)
		if _, ok := out[f]; !ok {
			continue
		}
		out[f] = append(out[f], syn...)
	}
	return Columns{synonyms: out}
}

// Synonyms returns the candidates for f.
func (c Columns) Synonyms(f Field) []string {
	return c.synonyms[f]
}

// FindColumn returns the index of the first header matching a candidate, or -1.
//
// Candidates are tried in order, and for each one the headers are scanned left
// to right; a header matches when, trimmed and lower-cased, it equals or
// contains the trimmed, lower-cased candidate. Candidate priority wins over
// header position. Blank headers and blank candidates never match.
func FindColumn(headers []string, candidates []string) int {
	for _, cand := range candidates {
		want := strings.ToLower(strings.TrimSpace(cand))
		if want == "" {
			continue
		}
		for i, h := range headers {
			got := strings.ToLower(strings.TrimSpace(h))
			if got == "" {
				continue
			}
			if got == want || strings.Contains(got, want) {
				return i
			}
		}
	}
	return -1
}

// ResolveCell returns the row's cell under the column matching candidates.
// A missing column or a row too short to reach it yields "". Cell text is
// returned as-is, so a literal "0" stays "0".
func ResolveCell(headers, row []string, candidates []string) string {
	idx := FindColumn(headers, candidates)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
