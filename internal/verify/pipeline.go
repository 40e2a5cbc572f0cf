// Package verify drives a single verification run through its stages:
// resolve the path, run the checks, scan for symlinks, aggregate the report,
// render it, and terminate with an exit code.
package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conneroisu/aletheia/internal/checks"
	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/pathresolve"
	"github.com/conneroisu/aletheia/internal/report"
	"github.com/conneroisu/aletheia/internal/security"
)

// Stage is a step of the run. Stages only move forward one at a time.
type Stage int

const (
	StageIdle Stage = iota
	StagePathValidated
	StageChecksRun
	StageScanRun
	StageAggregated
	StageRendered
	StageTerminated
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StagePathValidated:
		return "path-validated"
	case StageChecksRun:
		return "checks-run"
	case StageScanRun:
		return "scan-run"
	case StageAggregated:
		return "aggregated"
	case StageRendered:
		return "rendered"
	case StageTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Options configures a pipeline. Zero values select the defaults.
type Options struct {
	Scan       security.Options
	Categories []checks.Category
	// Now supplies the capture time.
	Now func() time.Time
	// NewRunID supplies the per-run identifier.
	NewRunID func() string
}

// Pipeline runs one verification. It is single-use.
type Pipeline struct {
	opts   Options
	logger logging.Logger
	stage  Stage
	report *report.Report
}

// New creates an idle pipeline.
func New(opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Categories == nil {
		opts.Categories = checks.Bronze()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Pipeline{
		opts:   opts,
		logger: logger.WithComponent("verify"),
		stage:  StageIdle,
	}
}

// Stage returns the current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Report returns the aggregated report, or nil before aggregation.
func (p *Pipeline) Report() *report.Report {
	return p.report
}

func (p *Pipeline) advance(ctx context.Context, next Stage) error {
	if next != p.stage+1 {
		err := apperrors.NewInternalError(
			fmt.Sprintf("invalid stage transition %s -> %s", p.stage, next), nil).
			WithComponent("verify")
		p.logger.Error(ctx, err, "pipeline misuse")
		return err
	}
	p.logger.Debug(ctx, "stage reached", "from", p.stage.String(), "to", next.String())
	p.stage = next
	return nil
}

// fail terminates the pipeline from any stage.
func (p *Pipeline) fail(ctx context.Context, err error) error {
	p.logger.Debug(ctx, "pipeline terminated early", "stage", p.stage.String(), "error", err.Error())
	p.stage = StageTerminated
	return err
}

// Run resolves rawPath and produces the report. An empty path verifies the
// working directory. Path errors terminate the pipeline and no report is
// produced.
func (p *Pipeline) Run(ctx context.Context, rawPath string) (*report.Report, error) {
	if p.stage != StageIdle {
		return nil, p.advance(ctx, StagePathValidated)
	}
	runID := p.opts.NewRunID()
	p.logger = p.logger.With("run_id", runID)

	root, err := pathresolve.Resolve(rawPath)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	if err := p.advance(ctx, StagePathValidated); err != nil {
		return nil, err
	}

	probe := checks.NewProbe(ctx, root, p.logger)
	results := checks.Evaluate(probe, p.opts.Categories...)
	if err := p.advance(ctx, StageChecksRun); err != nil {
		return nil, err
	}

	warnings := security.NewScanner(p.opts.Scan, p.logger).Scan(ctx, root)
	if err := p.advance(ctx, StageScanRun); err != nil {
		return nil, err
	}

	b := report.NewBuilder(root.Path)
	if err := b.AddChecks(results...); err != nil {
		return nil, p.fail(ctx, apperrors.NewInternalError("aggregating checks", err))
	}
	for _, w := range warnings {
		if err := b.AddWarning(w); err != nil {
			return nil, p.fail(ctx, apperrors.NewInternalError("aggregating warnings", err))
		}
	}
	rep, err := b.Build(p.opts.Now(), runID)
	if err != nil {
		return nil, p.fail(ctx, apperrors.NewInternalError("building report", err))
	}
	if err := p.advance(ctx, StageAggregated); err != nil {
		return nil, err
	}

	score := rep.Score()
	if rep.HasCritical() {
		p.logger.Warn(ctx, nil, "symlinks escape the repository root",
			"critical", rep.WarningCounts()[report.SeverityCritical])
	}
	p.logger.Info(ctx, "verification complete",
		"repository", rep.RepositoryPath(),
		"passed", score.Passed,
		"total", score.Total,
		"warnings", len(warnings),
		"critical", rep.HasCritical())

	p.report = rep
	return rep, nil
}

// Render hands the aggregated report to fn. A rendering failure terminates
// the pipeline.
func (p *Pipeline) Render(ctx context.Context, fn func(*report.Report) error) error {
	if err := p.advance(ctx, StageRendered); err != nil {
		return err
	}
	if err := fn(p.report); err != nil {
		return p.fail(ctx, fmt.Errorf("rendering report: %w", err))
	}
	return nil
}

// Finish terminates the pipeline and maps the report to an exit code.
func (p *Pipeline) Finish(ctx context.Context) (exitcode.Code, error) {
	if err := p.advance(ctx, StageTerminated); err != nil {
		return exitcode.ChecksFailed, err
	}
	code := exitcode.FromReport(p.report)
	p.logger.Debug(ctx, "exit code determined", "code", code.Int(), "reason", code.String())
	return code, nil
}
