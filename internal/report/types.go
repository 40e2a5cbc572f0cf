// Package report holds the compliance data model: individual check results,
// security warnings, and the aggregated report that renderers consume.
package report

import (
	"fmt"
	"math"
)

// Category groups related artifact checks.
type Category string

const (
	CategoryDocumentation   Category = "Documentation"
	CategoryWellKnown       Category = "Well-Known"
	CategoryBuildSystem     Category = "Build System"
	CategorySourceStructure Category = "Source Structure"
)

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{
		CategoryDocumentation,
		CategoryWellKnown,
		CategoryBuildSystem,
		CategorySourceStructure,
	}
}

// Tier is a compliance level. Only Bronze carries checks today.
type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
)

// String returns the display name of the tier.
func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "Bronze"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierPlatinum:
		return "Platinum"
	default:
		return "Unknown"
	}
}

// BadgeColor returns the hex colour used for the tier's badge.
func (t Tier) BadgeColor() string {
	switch t {
	case TierBronze:
		return "cd7f32"
	case TierSilver:
		return "c0c0c0"
	case TierGold:
		return "ffd700"
	case TierPlatinum:
		return "e5e4e2"
	default:
		return "lightgrey"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Severity of a security warning.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// Severities returns every severity from least to most severe.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityCritical}
}

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult is the outcome of one required artifact.
type CheckResult struct {
	Category Category `json:"category"`
	Item     string   `json:"item"`
	Passed   bool     `json:"passed"`
	Tier     Tier     `json:"tier"`
	// Detail names the alternative that satisfied an either-of check, or
	// explains why the check degraded to failed.
	Detail string `json:"detail,omitempty"`
}

// SecurityWarning is a finding from the symlink scan.
type SecurityWarning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
	Target   string   `json:"target,omitempty"`
}

// Score summarises passed checks.
type Score struct {
	Passed     int
	Total      int
	Percentage float64
}

// RoundedPercentage rounds half away from zero to one decimal place
// (1/16 = 6.25 becomes 6.3).
func (s Score) RoundedPercentage() float64 {
	return math.Round(s.Percentage*10) / 10
}

// PercentString renders the percentage with one decimal place.
func (s Score) PercentString() string {
	return fmt.Sprintf("%.1f", s.RoundedPercentage())
}

// CategoryGroup is the slice of checks belonging to one category.
type CategoryGroup struct {
	Category Category
	Checks   []CheckResult
	Passed   int
}

// Total returns the number of checks in the group.
func (g CategoryGroup) Total() int {
	return len(g.Checks)
}
