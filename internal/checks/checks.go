// Package checks implements the Bronze artifact checks. Each Category
// returns a fixed number of results whatever the state of the tree, so the
// score denominator never changes between runs.
package checks

import (
	"github.com/conneroisu/aletheia/internal/report"
)

// Category evaluates one group of required artifacts.
type Category interface {
	// Name is the category label used in reports.
	Name() report.Category
	// Size is the exact number of results Evaluate returns.
	Size() int
	// Evaluate probes the tree and returns Size results in item order.
	Evaluate(p *Probe) []report.CheckResult
}

// Bronze returns the Bronze-tier categories in report order.
func Bronze() []Category {
	return []Category{
		Documentation{},
		WellKnown{},
		BuildSystem{},
		SourceStructure{},
	}
}

// TotalSize sums the fixed sizes of categories.
func TotalSize(categories []Category) int {
	total := 0
	for _, c := range categories {
		total += c.Size()
	}
	return total
}

// Evaluate runs categories sequentially and concatenates their results.
func Evaluate(p *Probe, categories ...Category) []report.CheckResult {
	results := make([]report.CheckResult, 0, TotalSize(categories))
	for _, c := range categories {
		out := c.Evaluate(p)
		p.logger.Debug(p.ctx, "category evaluated",
			"category", string(c.Name()),
			"results", len(out))
		results = append(results, out...)
	}
	return results
}

func evaluateAll(category report.Category, p *Probe, artifacts []artifact) []report.CheckResult {
	results := make([]report.CheckResult, 0, len(artifacts))
	for _, a := range artifacts {
		o := p.check(a)
		results = append(results, result(category, a.item, o))
	}
	return results
}

func result(category report.Category, item string, o outcome) report.CheckResult {
	return report.CheckResult{
		Category: category,
		Item:     item,
		Passed:   o.passed,
		Tier:     report.TierBronze,
		Detail:   o.detail,
	}
}

// Documentation requires the standard community documents. README may be
// Markdown or AsciiDoc; either satisfies the single README check.
type Documentation struct{}

var documentationArtifacts = []artifact{
	{item: "README.md", kind: kindFile, names: []string{"README.md", "README.adoc"}},
	{item: "LICENSE.txt", kind: kindFile, names: []string{"LICENSE.txt"}},
	{item: "SECURITY.md", kind: kindFile, names: []string{"SECURITY.md"}},
	{item: "CONTRIBUTING.md", kind: kindFile, names: []string{"CONTRIBUTING.md"}},
	{item: "CODE_OF_CONDUCT.md", kind: kindFile, names: []string{"CODE_OF_CONDUCT.md"}},
	{item: "MAINTAINERS.md", kind: kindFile, names: []string{"MAINTAINERS.md"}},
	{item: "CHANGELOG.md", kind: kindFile, names: []string{"CHANGELOG.md"}},
}

func (Documentation) Name() report.Category { return report.CategoryDocumentation }

func (Documentation) Size() int { return len(documentationArtifacts) }

func (d Documentation) Evaluate(p *Probe) []report.CheckResult {
	return evaluateAll(d.Name(), p, documentationArtifacts)
}

// WellKnownDir is the metadata directory checked by WellKnown.
const WellKnownDir = ".well-known"

// WellKnown requires the .well-known directory and three files inside it.
// A missing directory fails all four checks; it never drops them.
type WellKnown struct{}

var wellKnownFiles = []string{"security.txt", "ai.txt", "humans.txt"}

func (WellKnown) Name() report.Category { return report.CategoryWellKnown }

func (WellKnown) Size() int { return 1 + len(wellKnownFiles) }

func (w WellKnown) Evaluate(p *Probe) []report.CheckResult {
	results := make([]report.CheckResult, 0, w.Size())

	dir := p.check(artifact{item: WellKnownDir + "/ directory", kind: kindDir, names: []string{WellKnownDir}})
	results = append(results, result(w.Name(), WellKnownDir+"/ directory", dir))

	for _, file := range wellKnownFiles {
		if !dir.passed {
			results = append(results, result(w.Name(), file, outcome{
				detail: "parent directory " + WellKnownDir + "/ missing",
			}))
			continue
		}
		o := p.check(artifact{item: file, kind: kindFile, names: []string{WellKnownDir + "/" + file}})
		results = append(results, result(w.Name(), file, o))
	}
	return results
}

// BuildSystem requires a task runner, a reproducible build descriptor and
// a CI pipeline. Any one recognised CI file satisfies the CI check.
type BuildSystem struct{}

// CIDescriptors lists the accepted CI pipeline files, in lookup order.
var CIDescriptors = []string{
	".gitlab-ci.yml",
	".gitlab-ci.yaml",
	".github/workflows/ci.yml",
	".github/workflows/ci.yaml",
	".circleci/config.yml",
	".travis.yml",
	"Jenkinsfile",
	".woodpecker.yml",
}

var buildSystemArtifacts = []artifact{
	{item: "justfile", kind: kindFile, names: []string{"justfile"}},
	{item: "flake.nix", kind: kindFile, names: []string{"flake.nix"}},
	{item: ".gitlab-ci.yml", kind: kindFile, names: CIDescriptors},
}

func (BuildSystem) Name() report.Category { return report.CategoryBuildSystem }

func (BuildSystem) Size() int { return len(buildSystemArtifacts) }

func (b BuildSystem) Evaluate(p *Probe) []report.CheckResult {
	return evaluateAll(b.Name(), p, buildSystemArtifacts)
}

// SourceStructure requires a source directory and a test directory, under
// any of their conventional names.
type SourceStructure struct{}

var sourceStructureArtifacts = []artifact{
	{item: "src/ directory", kind: kindDir, names: []string{"src", "lib"}},
	{item: "tests/ directory", kind: kindDir, names: []string{"tests", "test"}},
}

func (SourceStructure) Name() report.Category { return report.CategorySourceStructure }

func (SourceStructure) Size() int { return len(sourceStructureArtifacts) }

func (s SourceStructure) Evaluate(p *Probe) []report.CheckResult {
	return evaluateAll(s.Name(), p, sourceStructureArtifacts)
}
