// Package rag maps free-text traffic-light values onto the Red/Amber/Green scale.
package rag

import "strings"

// Status is the closed Red/Amber/Green health scale.
type Status string

const (
	Red   Status = "Red"
	Amber Status = "Amber"
	Green Status = "Green"
)

// Valid reports whether s is one of the three canonical values.
func (s Status) Valid() bool {
	switch s {
	case Red, Amber, Green:
		return true
	}
	return false
}

// RiskLevel grades how much attention a project needs.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Normalize maps a spreadsheet cell onto a Status. It never fails.
//
// Blank input and anything unrecognised map to Green: a missing colour is
// read as "nothing to report". Matching is case-insensitive and checks red
// before amber before green, so "red/green" resolves to Red.
func Normalize(raw string) Status {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Green
	}
	switch {
	case strings.Contains(v, "red") || v == "r":
		return Red
	case strings.Contains(v, "yellow") || strings.Contains(v, "amber") || v == "y" || v == "a":
		return Amber
	case strings.Contains(v, "green") || v == "g":
		return Green
	}
	if s := Status(strings.TrimSpace(raw)); s.Valid() {
		return s
	}
	return Green
}

// RiskFor derives the risk level used when no assessment is available.
func RiskFor(s Status) RiskLevel {
	switch s {
	case Red:
		return RiskHigh
	case Amber:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ParseStatus accepts only canonical values (case-insensitive).
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "red":
		return Red, true
	case "amber":
		return Amber, true
	case "green":
		return Green, true
	}
	return "", false
}

// ParseRiskLevel accepts only known risk levels (case-insensitive).
func ParseRiskLevel(raw string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	case "critical":
		return RiskCritical, true
	}
	return "", false
}
