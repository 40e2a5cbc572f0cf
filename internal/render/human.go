// Package render turns a compliance report into its human-readable and
// structured forms. Every function here is a pure function of the report
// and its options; nothing reads the filesystem or the environment.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/report"
)

// Verbosity selects how much of the report the human form shows.
type Verbosity int

const (
	VerbosityNormal Verbosity = iota
	VerbosityQuiet
	VerbosityVerbose
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// Options controls the human form.
type Options struct {
	Verbosity Verbosity
	// Color enables ANSI colour regardless of the destination.
	Color bool
	// Version is the tool version printed in the header.
	Version string
}

// Banner lines, shared with tests and the structured form.
const (
	BannerAchieved = "Bronze-level RSR compliance: ACHIEVED"
	BannerNotMet   = "Bronze-level RSR compliance: NOT MET"
	BannerSecurity = "Bronze-level RSR compliance: NOT MET (security)"
)

var categoryIcons = map[report.Category]string{
	report.CategoryDocumentation:   "📚",
	report.CategoryWellKnown:       "🌐",
	report.CategoryBuildSystem:     "🔧",
	report.CategorySourceStructure: "📁",
}

var severityIcons = map[report.Severity]string{
	report.SeverityInfo:     "ℹ️ ",
	report.SeverityWarning:  "⚠️ ",
	report.SeverityCritical: "🚨",
}

type palette struct {
	heading *color.Color
	pass    *color.Color
	fail    *color.Color
	warn    *color.Color
	faint   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		heading: color.New(color.Bold),
		pass:    color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.heading, p.pass, p.fail, p.warn, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printer remembers the first write error so rendering code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

// Human writes the report in human-readable form.
func Human(w io.Writer, r *report.Report, opts Options) error {
	p := &printer{w: w}
	pal := newPalette(opts.Color)

	if opts.Verbosity == VerbosityQuiet {
		quiet(p, pal, r)
		return p.err
	}

	header(p, pal, r, opts)
	for _, group := range r.ChecksByCategory() {
		category(p, pal, group, opts.Verbosity)
	}
	warnings(p, pal, r, opts.Verbosity)
	p.println("")
	summary(p, pal, r)

	if opts.Verbosity == VerbosityVerbose {
		code := exitcode.FromReport(r)
		p.printf("Exit code: %d (%s)\n", code.Int(), code)
	}
	return p.err
}

func header(p *printer, pal palette, r *report.Report, opts Options) {
	title := fmt.Sprintf("🔍 Aletheia %s RSR Bronze verification", opts.Version)
	p.println(pal.heading.Sprint(title))
	p.println(strings.Repeat("=", len([]rune(title))+1))
	p.printf("Repository:  %s\n", r.RepositoryPath())
	p.printf("Captured:    %s\n", r.CapturedAt().Format(time.RFC3339))
	p.printf("Run ID:      %s\n", r.RunID())
	p.printf("Fingerprint: %s\n", r.Fingerprint())
}

func category(p *printer, pal palette, group report.CategoryGroup, v Verbosity) {
	p.printf("\n%s %s\n", categoryIcons[group.Category], pal.heading.Sprint(string(group.Category)))
	for _, check := range group.Checks {
		mark := pal.pass.Sprint("✅")
		if !check.Passed {
			mark = pal.fail.Sprint("❌")
		}
		p.printf("  %s %s [%s]\n", mark, check.Item, check.Tier)
		if v == VerbosityVerbose && check.Detail != "" {
			p.printf("      %s\n", pal.faint.Sprint(check.Detail))
		}
	}
}

func warnings(p *printer, pal palette, r *report.Report, v Verbosity) {
	list := r.Warnings()
	if len(list) == 0 {
		return
	}

	caser := cases.Title(language.English)
	p.printf("\n🔒 %s\n", pal.heading.Sprint("Security"))
	for _, w := range list {
		label := caser.String(w.Severity.String())
		switch w.Severity {
		case report.SeverityCritical:
			label = pal.fail.Sprint(label)
		case report.SeverityWarning:
			label = pal.warn.Sprint(label)
		}
		p.printf("  %s %s: %s\n", severityIcons[w.Severity], label, w.Message)
		if v == VerbosityVerbose {
			p.printf("      path:   %s\n", w.Path)
			if w.Target != "" {
				p.printf("      target: %s\n", w.Target)
			}
		}
	}
}

func summary(p *printer, pal palette, r *report.Report) {
	score := r.Score()
	p.printf("Score: %d/%d checks passed (%s%%)\n", score.Passed, score.Total, score.PercentString())

	if r.HasCritical() {
		p.println(pal.fail.Sprint("CRITICAL: symlink escapes the repository root"))
	}
	p.println(banner(pal, r))
}

func quiet(p *printer, pal palette, r *report.Report) {
	for _, group := range r.ChecksByCategory() {
		p.printf("%s: %d/%d\n", group.Category, group.Passed, group.Total())
	}

	counts := r.WarningCounts()
	p.printf("Warnings: %d critical, %d warning, %d info\n",
		counts[report.SeverityCritical],
		counts[report.SeverityWarning],
		counts[report.SeverityInfo])

	summary(p, pal, r)
}

func banner(pal palette, r *report.Report) string {
	switch {
	case r.HasCritical():
		return pal.fail.Sprint(BannerSecurity)
	case r.BronzeCompliant():
		return pal.pass.Sprint(BannerAchieved)
	default:
		return pal.fail.Sprint(BannerNotMet)
	}
}
