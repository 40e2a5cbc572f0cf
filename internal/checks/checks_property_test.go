//go:build property
// +build property

package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/aletheia/internal/pathresolve"
)

// units maps one-to-one onto the sixteen checks. Well-known files are only
// created when the .well-known unit is present.
var units = []struct {
	path string
	dir  bool
}{
	{"README.md", false},
	{"LICENSE.txt", false},
	{"SECURITY.md", false},
	{"CONTRIBUTING.md", false},
	{"CODE_OF_CONDUCT.md", false},
	{"MAINTAINERS.md", false},
	{"CHANGELOG.md", false},
	{".well-known", true},
	{".well-known/security.txt", false},
	{".well-known/ai.txt", false},
	{".well-known/humans.txt", false},
	{"justfile", false},
	{"flake.nix", false},
	{".gitlab-ci.yml", false},
	{"src", true},
	{"tests", true},
}

const wellKnownUnit = 7

func TestCheckProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: any subset of artifacts yields exactly 16 results, and the
	// passed count equals the number of artifacts that can be satisfied.
	properties.Property("fixed denominator and exact passed count", prop.ForAll(
		func(mask []bool) bool {
			root, err := os.MkdirTemp(t.TempDir(), "repo")
			if err != nil {
				return false
			}

			expected := 0
			for i, u := range units {
				if !mask[i] {
					continue
				}
				isWellKnownFile := i > wellKnownUnit && i <= wellKnownUnit+3
				if isWellKnownFile && !mask[wellKnownUnit] {
					continue
				}
				path := filepath.Join(root, filepath.FromSlash(u.path))
				if u.dir {
					err = os.MkdirAll(path, 0o755)
				} else {
					if err = os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
						err = os.WriteFile(path, nil, 0o644)
					}
				}
				if err != nil {
					return false
				}
				expected++
			}

			resolved, err := pathresolve.Resolve(root)
			if err != nil {
				return false
			}
			results := Evaluate(NewProbe(context.Background(), resolved, nil), Bronze()...)

			passed := 0
			for _, r := range results {
				if r.Passed {
					passed++
				}
			}
			return len(results) == 16 && passed == expected
		},
		gen.SliceOfN(len(units), gen.Bool()),
	))

	// Property: evaluating the same tree twice gives identical results.
	properties.Property("evaluation is deterministic", prop.ForAll(
		func(mask []bool) bool {
			root, err := os.MkdirTemp(t.TempDir(), "repo")
			if err != nil {
				return false
			}
			for i, u := range units {
				if mask[i] && !u.dir {
					path := filepath.Join(root, filepath.FromSlash(u.path))
					_ = os.MkdirAll(filepath.Dir(path), 0o755)
					_ = os.WriteFile(path, nil, 0o644)
				}
			}

			resolved, err := pathresolve.Resolve(root)
			if err != nil {
				return false
			}
			first := Evaluate(NewProbe(context.Background(), resolved, nil), Bronze()...)
			second := Evaluate(NewProbe(context.Background(), resolved, nil), Bronze()...)
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(len(units), gen.Bool()),
	))

	properties.TestingRun(t)
}
