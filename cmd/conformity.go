package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/aletheia/internal/conformity"
	"github.com/conneroisu/aletheia/internal/exitcode"
	"github.com/conneroisu/aletheia/internal/report"
)

func newConformityCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "conformity [PATH]",
		Short: "Print an RSR conformity statement for a repository",
		Long: `Verify PATH and print a Markdown conformity statement listing every
Bronze requirement and whether it is met.

The command exits 0 whenever the statement was produced, whatever the verdict.`,
		Args: maxOnePath,
		RunE: a.runConformity,
	}
}

func (a *app) runConformity(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	err = a.pipeline(cmd.Context(), cfg, logger, func(r *report.Report) error {
		return conformity.Statement(a.stdout, r)
	})
	if err != nil {
		return err
	}
	a.code = exitcode.Compliant
	return nil
}
