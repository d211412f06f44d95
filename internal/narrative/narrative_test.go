package narrative

import (
	"reflect"
	"testing"
)

func TestPrimaryRecommendation(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		want   string
	}{
		{name: "empty", reason: "", want: DefaultRecommendation},
		{name: "blank", reason: "   ", want: DefaultRecommendation},
		{name: "recommend", reason: "Portfolio is Amber. Recommend adding two QA engineers. Other notes.", want: "adding two QA engineers"},
		{name: "recommend case insensitive", reason: "we RECOMMEND pausing intake", want: "pausing intake"},
		{name: "recommend needs terminator on its line", reason: "Recommend a vendor review\nthen more text.", want: DefaultRecommendation},
		{name: "recommend at end of text", reason: "Budget is fine. Recommend a vendor review", want: "a vendor review"},
		{name: "focus", reason: "Teams should focus on vendor delays. Also more.", want: "Focus on on vendor delays"},
		{name: "attention", reason: "Needs attention to staffing gaps.", want: "Focus on to staffing gaps"},
		{name: "address", reason: "Must address the billing backlog", want: "Focus on the billing backlog"},
		{name: "focus beats address", reason: "Address this later. Focus: hiring.", want: "Focus on : hiring"},
		{name: "nothing", reason: "All projects are fine.", want: DefaultRecommendation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryRecommendation(tt.reason); got != tt.want {
				t.Fatalf("PrimaryRecommendation(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}

func TestExtractMetrics(t *testing.T) {
	tests := []struct {
		reason string
		want   Metrics
	}{
		{"12 projects are Green and show no Red mentions", Metrics{Green: 12}},
		{"", Metrics{}},
		{"10 projects are Green, 4 projects are Amber and 2 projects are Red.", Metrics{Green: 10, Amber: 4, Red: 2}},
		{"3 PROJECTS amber", Metrics{Amber: 3}},
		{"2 projects Red then 5 projects Red", Metrics{Red: 2}},
		{"projects are Green", Metrics{}},
	}
	for _, tt := range tests {
		if got := ExtractMetrics(tt.reason); got != tt.want {
			t.Fatalf("ExtractMetrics(%q) = %+v, want %+v", tt.reason, got, tt.want)
		}
	}
}

func TestSummaryText(t *testing.T) {
	if SummaryText(Metrics{Red: 11}) != "High risk projects need immediate attention" {
		t.Fatalf("red threshold")
	}
	if SummaryText(Metrics{Red: 10, Amber: 16}) != "Several projects require monitoring" {
		t.Fatalf("amber threshold")
	}
	if SummaryText(Metrics{Red: 10, Amber: 15}) != "Portfolio showing stable performance" {
		t.Fatalf("stable")
	}
}

func TestKeyRiskAreas(t *testing.T) {
	if got := KeyRiskAreas(""); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
	got := KeyRiskAreas("Delays from legacy system integrations and resource allocation.")
	if !reflect.DeepEqual(got, []string{"Legacy system integrations", "Resource allocation"}) {
		t.Fatalf("unexpected %v", got)
	}
	if got := KeyRiskAreas("generic"); !reflect.DeepEqual(got, []string{"Multiple risk factors identified"}) {
		t.Fatalf("unexpected %v", got)
	}
}
