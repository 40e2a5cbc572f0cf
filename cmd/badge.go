package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/aletheia/internal/conformity"
	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/report"
)

func newBadgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "badge [PATH]",
		Short: "Print README badge markdown for a repository",
		Long: `Verify PATH and print shields.io badge markdown for the tier it meets.
A repository that does not meet Bronze gets a grey "not met" badge.

The command exits 0 whenever the badge was produced, whatever the verdict.`,
		Args: maxOnePath,
		RunE: a.runBadge,
	}
}

func (a *app) runBadge(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	err = a.pipeline(cmd.Context(), cfg, logger, func(r *report.Report) error {
		_, err := fmt.Fprintln(a.stdout, conformity.Badge(r))
		return err
	})
	if err != nil {
		return err
	}
	a.code = exitcode.Compliant
	return nil
}
