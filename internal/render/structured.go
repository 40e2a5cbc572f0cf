package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/report"
)

// ToolName identifies this tool in structured output.
const ToolName = "aletheia"

// Percent always encodes with exactly one decimal place, so 100 is written
// as 100.0 and 6.25 as 6.3.
type Percent float64

func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', 1, 64)
}

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Percent) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: p.String()}, nil
}

// Document is the machine-readable report.
type Document struct {
	Tool        string        `json:"tool" yaml:"tool"`
	Version     string        `json:"version" yaml:"version"`
	RunID       string        `json:"run_id" yaml:"run_id"`
	Repository  string        `json:"repository" yaml:"repository"`
	Timestamp   string        `json:"timestamp" yaml:"timestamp"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	Tier        string        `json:"tier" yaml:"tier"`
	Categories  []CategoryDoc `json:"categories" yaml:"categories"`
	Overall     Overall       `json:"overall" yaml:"overall"`
	Warnings    []WarningDoc  `json:"warnings" yaml:"warnings"`
}

// CategoryDoc is one category block.
type CategoryDoc struct {
	Name        string    `json:"name" yaml:"name"`
	Items       []ItemDoc `json:"items" yaml:"items"`
	PassedCount int       `json:"passed_count" yaml:"passed_count"`
	TotalCount  int       `json:"total_count" yaml:"total_count"`
}

// ItemDoc is one check.
type ItemDoc struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Tier   string `json:"tier" yaml:"tier"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Overall is the aggregate verdict.
type Overall struct {
	PassedCount int     `json:"passed_count" yaml:"passed_count"`
	TotalCount  int     `json:"total_count" yaml:"total_count"`
	Percentage  Percent `json:"percentage" yaml:"percentage"`
	Compliant   bool    `json:"compliant" yaml:"compliant"`
	Critical    bool    `json:"critical" yaml:"critical"`
	ExitCode    int     `json:"exit_code" yaml:"exit_code"`
}

// WarningDoc is one security finding.
type WarningDoc struct {
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Path     string `json:"path" yaml:"path"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
}

// TierNone is written when no tier was achieved.
const TierNone = "none"

// Structured converts a report into its machine-readable form.
func Structured(r *report.Report, version string) Document {
	score := r.Score()

	tier := TierNone
	if t, ok := r.HighestTier(); ok {
		tier = t.String()
	}

	doc := Document{
		Tool:        ToolName,
		Version:     version,
		RunID:       r.RunID(),
		Repository:  r.RepositoryPath(),
		Timestamp:   r.CapturedAt().Format(time.RFC3339),
		Fingerprint: r.Fingerprint(),
		Tier:        tier,
		Categories:  make([]CategoryDoc, 0, len(report.Categories())),
		Overall: Overall{
			PassedCount: score.Passed,
			TotalCount:  score.Total,
			Percentage:  Percent(score.RoundedPercentage()),
			Compliant:   r.BronzeCompliant(),
			Critical:    r.HasCritical(),
			ExitCode:    exitcode.FromReport(r).Int(),
		},
		Warnings: make([]WarningDoc, 0),
	}

	for _, group := range r.ChecksByCategory() {
		block := CategoryDoc{
			Name:        string(group.Category),
			Items:       make([]ItemDoc, 0, group.Total()),
			PassedCount: group.Passed,
			TotalCount:  group.Total(),
		}
		for _, check := range group.Checks {
			block.Items = append(block.Items, ItemDoc{
				Name:   check.Item,
				Passed: check.Passed,
				Tier:   check.Tier.String(),
				Detail: check.Detail,
			})
		}
		doc.Categories = append(doc.Categories, block)
	}

	for _, w := range r.Warnings() {
		doc.Warnings = append(doc.Warnings, WarningDoc{
			Severity: w.Severity.String(),
			Message:  w.Message,
			Path:     w.Path,
			Target:   w.Target,
		})
	}

	return doc
}

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

// EncodeYAML writes doc as YAML.
func EncodeYAML(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return nil
}
