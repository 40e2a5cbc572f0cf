//go:build property
// +build property

package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReportProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	build := func(passed int, severities []int) *Report {
		b := NewBuilder("/repo")
		for i := 0; i < 16; i++ {
			category := Categories()[i%len(Categories())]
			_ = b.AddCheck(CheckResult{
				Category: category,
				Item:     fmt.Sprintf("item-%02d", i),
				Passed:   i < passed,
				Tier:     TierBronze,
			})
		}
		for i, s := range severities {
			_ = b.AddWarning(SecurityWarning{
				Severity: Severity(s),
				Message:  "finding",
				Path:     fmt.Sprintf("/repo/link-%d", i),
			})
		}
		r, _ := b.Build(time.Unix(0, 0), "run")
		return r
	}

	// Property: compliance holds exactly when all checks pass and nothing is
	// critical.
	properties.Property("compliance is all-passed and not critical", prop.ForAll(
		func(passed int, severities []int) bool {
			r := build(passed, severities)
			critical := false
			for _, s := range severities {
				if Severity(s) == SeverityCritical {
					critical = true
				}
			}
			return r.BronzeCompliant() == (passed == 16 && !critical) &&
				r.HasCritical() == critical
		},
		gen.IntRange(0, 16),
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	// Property: the percentage stays in range and always has one decimal.
	properties.Property("percentage bounds and format", prop.ForAll(
		func(passed int) bool {
			s := build(passed, nil).Score()
			p := s.RoundedPercentage()
			text := s.PercentString()
			dot := strings.IndexByte(text, '.')
			return p >= 0 && p <= 100 &&
				s.Total == 16 && s.Passed == passed &&
				dot > 0 && len(text)-dot == 2
		},
		gen.IntRange(0, 16),
	))

	// Property: grouping by category neither drops nor duplicates checks.
	properties.Property("grouping preserves checks", prop.ForAll(
		func(passed int) bool {
			r := build(passed, nil)
			total, ok := 0, 0
			for _, g := range r.ChecksByCategory() {
				total += g.Total()
				ok += g.Passed
			}
			return total == 16 && ok == passed
		},
		gen.IntRange(0, 16),
	))

	// Property: the fingerprint ignores capture time and run id.
	properties.Property("fingerprint depends on content only", prop.ForAll(
		func(passed int, a, b string) bool {
			mk := func(runID string, at time.Time) string {
				builder := NewBuilder("/repo")
				for i := 0; i < 16; i++ {
					_ = builder.AddCheck(CheckResult{Item: fmt.Sprint(i), Passed: i < passed})
				}
				r, err := builder.Build(at, runID)
				if err != nil {
					return ""
				}
				return r.Fingerprint()
			}
			first := mk(a, time.Unix(1, 0))
			return first != "" && first == mk(b, time.Unix(2, 0))
		},
		gen.IntRange(0, 16),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
