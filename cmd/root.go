package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/aletheia/internal/config"
	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/render"
	"github.com/conneroisu/aletheia/internal/report"
	"github.com/conneroisu/aletheia/internal/verify"
	"github.com/conneroisu/aletheia/internal/version"
)

// app carries the state of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	viper  *viper.Viper
	code   exitcode.Code
}

// Run executes the command line args and returns the process exit status.
// Fatal errors are written to stderr as a single "Error: " line.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		viper:  viper.New(),
		code:   exitcode.Compliant,
	}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", firstLine(err.Error()))
		return exitcode.FromError(err).Int()
	}
	return a.code.Int()
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "aletheia [PATH]",
		Short: "Verify a repository against the RSR Bronze tier",
		Long: `Aletheia checks that a repository carries the artifacts required by the
Rhodium Standard Repository Bronze tier and that no symbolic link escapes
the repository root.

Checks (16):
  Documentation     README, LICENSE.txt, SECURITY.md, CONTRIBUTING.md,
                    CODE_OF_CONDUCT.md, MAINTAINERS.md, CHANGELOG.md
  Well-Known        .well-known/ with security.txt, ai.txt, humans.txt
  Build System      justfile, flake.nix, a CI pipeline descriptor
  Source Structure  src/ (or lib/), tests/ (or test/)

Only file metadata is read; file contents are never opened.`,
		Version:       version.GetShortVersion(),
		Args:          maxOnePath,
		RunE:          a.runVerify,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("aletheia {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewInvalidArgumentError(err.Error(), nil)
	})

	addGlobalFlags(root)
	addOutputFlags(root)
	addVersionFlag(root)

	root.AddCommand(
		newVersionCommand(a),
		newBadgeCommand(a),
		newConformityCommand(a),
	)
	return root
}

func maxOnePath(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return apperrors.NewInvalidArgumentError(err.Error(), nil)
	}
	return nil
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	return a.pipeline(cmd.Context(), cfg, logger, func(r *report.Report) error {
		switch cfg.Format {
		case config.FormatJSON:
			return render.EncodeJSON(a.stdout, render.Structured(r, version.GetVersion()))
		case config.FormatYAML:
			return render.EncodeYAML(a.stdout, render.Structured(r, version.GetVersion()))
		default:
			return render.Human(a.stdout, r, render.Options{
				Verbosity: cfg.Verbosity,
				Color:     cfg.Color && isTerminal(a.stdout),
				Version:   version.GetShortVersion(),
			})
		}
	})
}

// load resolves the configuration and builds the logger for this run.
func (a *app) load(cmd *cobra.Command, args []string) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(a.viper, cmd.Flags(), args)
	if err != nil {
		return nil, nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = a.stderr
	logger := logging.NewLogger(lc).WithComponent("cli")
	if cfg.File != "" {
		logger.Debug(cmd.Context(), "using config file", "file", cfg.File)
	}
	return cfg, logger, nil
}

// pipeline runs verification and hands the report to output. The exit
// status is taken from the report.
func (a *app) pipeline(ctx context.Context, cfg *config.Config, logger logging.Logger, output func(*report.Report) error) error {
	p := verify.New(verify.Options{Scan: cfg.ScanOptions()}, logger)
	if _, err := p.Run(ctx, cfg.Path); err != nil {
		return err
	}
	if err := p.Render(ctx, output); err != nil {
		return err
	}
	code, err := p.Finish(ctx)
	if err != nil {
		return err
	}
	a.code = code
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
