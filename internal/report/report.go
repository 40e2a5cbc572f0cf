package report

import (
	"errors"
	"time"
)

// ErrSealed is returned when appending to a builder that already produced
// its report.
var ErrSealed = errors.New("report already built")

// Builder accumulates checks and warnings. It is append-only and produces
// exactly one Report.
type Builder struct {
	repositoryPath string
	checks         []CheckResult
	warnings       []SecurityWarning
	sealed         bool
}

// NewBuilder starts a report for the given canonical repository path.
func NewBuilder(repositoryPath string) *Builder {
	return &Builder{repositoryPath: repositoryPath}
}

// AddCheck appends a check result.
func (b *Builder) AddCheck(check CheckResult) error {
	if b.sealed {
		return ErrSealed
	}
	b.checks = append(b.checks, check)
	return nil
}

// AddChecks appends several check results in order.
func (b *Builder) AddChecks(checks ...CheckResult) error {
	for _, c := range checks {
		if err := b.AddCheck(c); err != nil {
			return err
		}
	}
	return nil
}

// AddWarning appends a security warning.
func (b *Builder) AddWarning(warning SecurityWarning) error {
	if b.sealed {
		return ErrSealed
	}
	b.warnings = append(b.warnings, warning)
	return nil
}

// Build freezes the builder and returns the immutable report.
func (b *Builder) Build(capturedAt time.Time, runID string) (*Report, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	b.sealed = true

	r := &Report{
		repositoryPath: b.repositoryPath,
		checks:         append([]CheckResult(nil), b.checks...),
		warnings:       append([]SecurityWarning(nil), b.warnings...),
		capturedAt:     capturedAt.UTC(),
		runID:          runID,
	}

	fp, err := fingerprint(r)
	if err != nil {
		return nil, err
	}
	r.fingerprint = fp

	return r, nil
}

// Report is the immutable result of one verification run.
type Report struct {
	repositoryPath string
	checks         []CheckResult
	warnings       []SecurityWarning
	capturedAt     time.Time
	runID          string
	fingerprint    string
}

// RepositoryPath returns the canonical path that was verified.
func (r *Report) RepositoryPath() string { return r.repositoryPath }

// CapturedAt returns the instant the snapshot was taken. Artifacts may change
// after this point; the report does not claim otherwise.
func (r *Report) CapturedAt() time.Time { return r.capturedAt }

// RunID identifies this invocation.
func (r *Report) RunID() string { return r.runID }

// Fingerprint identifies the check and warning content. Two runs over an
// unchanged tree produce the same fingerprint.
func (r *Report) Fingerprint() string { return r.fingerprint }

// Checks returns a copy of the check results in report order.
func (r *Report) Checks() []CheckResult {
	return append([]CheckResult(nil), r.checks...)
}

// Warnings returns a copy of the security warnings.
func (r *Report) Warnings() []SecurityWarning {
	return append([]SecurityWarning(nil), r.warnings...)
}

// Score returns passed/total and the pass percentage.
func (r *Report) Score() Score {
	s := Score{Total: len(r.checks)}
	for _, c := range r.checks {
		if c.Passed {
			s.Passed++
		}
	}
	if s.Total > 0 {
		s.Percentage = float64(s.Passed) / float64(s.Total) * 100.0
	}
	return s
}

// AllChecksPassed reports whether every Bronze check passed.
func (r *Report) AllChecksPassed() bool {
	for _, c := range r.checks {
		if c.Tier == TierBronze && !c.Passed {
			return false
		}
	}
	return true
}

// HasCritical reports whether any warning is Critical.
func (r *Report) HasCritical() bool {
	for _, w := range r.warnings {
		if w.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// BronzeCompliant is true only when every check passed and no Critical
// warning exists. A security failure is never offset by artifact score.
func (r *Report) BronzeCompliant() bool {
	return r.AllChecksPassed() && !r.HasCritical()
}

// HighestTier returns the highest tier achieved, if any.
func (r *Report) HighestTier() (Tier, bool) {
	if !r.BronzeCompliant() {
		return TierBronze, false
	}
	return TierBronze, true
}

// WarningCounts tallies warnings by severity.
func (r *Report) WarningCounts() map[Severity]int {
	counts := make(map[Severity]int, len(Severities()))
	for _, s := range Severities() {
		counts[s] = 0
	}
	for _, w := range r.warnings {
		counts[w.Severity]++
	}
	return counts
}

// ChecksByCategory groups checks preserving report order. Categories with
// no checks are omitted.
func (r *Report) ChecksByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[Category]int)
	for _, c := range r.checks {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, CategoryGroup{Category: c.Category})
		}
		groups[i].Checks = append(groups[i].Checks, c)
		if c.Passed {
			groups[i].Passed++
		}
	}
	return groups
}
