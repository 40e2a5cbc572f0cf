// Package conformity produces the artifacts a project publishes about its
// own compliance: a README badge and a conformity statement.
package conformity

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/conneroisu/aletheia/internal/report"
)

// StandardURL is the home of the Rhodium Standard Repositories project.
const StandardURL = "https://github.com/hyperpolymath/rhodium-standard-repositories"

const notMetColor = "lightgrey"

// Badge returns shields.io badge markdown for the highest tier achieved.
// A repository that meets no tier gets a grey "not met" badge.
func Badge(r *report.Report) string {
	tier, ok := r.HighestTier()
	if !ok {
		return fmt.Sprintf("[![Rhodium Standard](https://img.shields.io/badge/RSR-not%%20met-%s)](%s)",
			notMetColor, StandardURL)
	}
	return fmt.Sprintf("[![Rhodium Standard %s](https://img.shields.io/badge/RSR-%s-%s)](%s)",
		tier, tier, tier.BadgeColor(), StandardURL)
}

type requirement struct {
	Category string
	Item     string
	Status   string
}

type statementData struct {
	Project      string
	Level        string
	StandardURL  string
	Verified     string
	Requirements []requirement
	Critical     bool
	Passed       int
	Total        int
	Percent      string
}

var statementTemplate = template.Must(template.New("statement").Parse(`# RSR Conformity Statement

**Project**: {{.Project}}
**RSR Level**: {{.Level}}
**Standard**: [Rhodium Standard Repository]({{.StandardURL}})
**Last Verified**: {{.Verified}}

## Bronze Requirements

| Category | Requirement | Status |
|----------|-------------|--------|
{{- range .Requirements}}
| {{.Category}} | {{.Item}} | {{.Status}} |
{{- end}}
{{if .Critical}}
**Security**: a symlink escapes the repository root; compliance is blocked until it is removed.
{{end}}
## Verification

Run self-verification:

` + "```bash" + `
aletheia .
` + "```" + `

Expected output: ` + "`{{.Passed}}/{{.Total}} checks passed ({{.Percent}}%)`" + `
`))

// Statement writes the conformity statement as Markdown.
func Statement(w io.Writer, r *report.Report) error {
	level := "Not Met"
	if tier, ok := r.HighestTier(); ok {
		level = tier.String()
	}

	project := filepath.Base(r.RepositoryPath())
	if project == "." || project == string(filepath.Separator) {
		project = "Unknown"
	}

	score := r.Score()
	data := statementData{
		Project:     project,
		Level:       level,
		StandardURL: StandardURL,
		Verified:    r.CapturedAt().Format("2006-01-02"),
		Critical:    r.HasCritical(),
		Passed:      score.Passed,
		Total:       score.Total,
		Percent:     score.PercentString(),
	}
	for _, check := range r.Checks() {
		if check.Tier != report.TierBronze {
			continue
		}
		status := "No"
		if check.Passed {
			status = "Yes"
		}
		data.Requirements = append(data.Requirements, requirement{
			Category: string(check.Category),
			Item:     escapeCell(check.Item),
			Status:   status,
		})
	}

	if err := statementTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing conformity statement: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
