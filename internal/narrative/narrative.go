// Package narrative mines free-text portfolio reasoning for a headline
// recommendation and Red/Amber/Green project counts. Everything here is best
// effort: functions never fail and fall back to fixed defaults.
package narrative

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultRecommendation is returned when no recommendation can be found.
const DefaultRecommendation = "Review portfolio and address critical issues immediately"

var (
	recommendRe = regexp.MustCompile(`(?i)Recommend (.+?)(\.|$)`)
	actionRes   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)focus(.+?)(\.|$)`),
		regexp.MustCompile(`(?i)attention(.+?)(\.|$)`),
		regexp.MustCompile(`(?i)address(.+?)(\.|$)`),
	}
	countRe = regexp.MustCompile(`(?i)(\d+)\s*projects.*?(green|amber|red)`)
)

// PrimaryRecommendation picks one actionable sentence out of reason.
//
// "Recommend X." wins and yields X. Otherwise the first of "focus X.",
// "attention X." and "address X." that matches yields "Focus on X".
// A match runs to the next full stop, or to the end of the text when it is
// on the last line.
func PrimaryRecommendation(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return DefaultRecommendation
	}
	if m := recommendRe.FindStringSubmatch(reason); m != nil {
		if rec := strings.TrimSpace(m[1]); rec != "" {
			return rec
		}
	}
	for _, re := range actionRes {
		if m := re.FindStringSubmatch(reason); m != nil {
			return "Focus on " + strings.TrimSpace(m[1])
		}
	}
	return DefaultRecommendation
}

// Metrics are project counts mentioned in a reason text.
type Metrics struct {
	Green int `json:"green"`
	Amber int `json:"amber"`
	Red   int `json:"red"`
}

// Total is the sum of the three counts.
func (m Metrics) Total() int { return m.Green + m.Amber + m.Red }

// ExtractMetrics reads phrases like "12 projects are Green". Each count is
// bound to the first colour word after "N projects", and the first phrase
// for a colour wins. Colours never mentioned stay 0. Counts are not checked
// against any total.
func ExtractMetrics(reason string) Metrics {
	var m Metrics
	seen := map[string]bool{}
	for _, match := range countRe.FindAllStringSubmatch(reason, -1) {
		color := strings.ToLower(match[2])
		if seen[color] {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		seen[color] = true
		switch color {
		case "green":
			m.Green = n
		case "amber":
			m.Amber = n
		case "red":
			m.Red = n
		}
	}
	return m
}

// SummaryText grades the counts into one headline.
func SummaryText(m Metrics) string {
	switch {
	case m.Red > 10:
		return "High risk projects need immediate attention"
	case m.Amber > 15:
		return "Several projects require monitoring"
	default:
		return "Portfolio showing stable performance"
	}
}

var riskPhrases = []struct{ phrase, label string }{
	{"legacy system integrations", "Legacy system integrations"},
	{"resource allocation", "Resource allocation"},
	{"third-party dependency", "Third-party dependencies"},
}

// KeyRiskAreas lists known risk themes named in reason.
func KeyRiskAreas(reason string) []string {
	if reason == "" {
		return []string{}
	}
	var out []string
	for _, rp := range riskPhrases {
		if strings.Contains(reason, rp.phrase) {
			out = append(out, rp.label)
		}
	}
	if len(out) == 0 {
		return []string{"Multiple risk factors identified"}
	}
	return out
}
