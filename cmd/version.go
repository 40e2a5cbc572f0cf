package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/version"
)

func newVersionCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for aletheia including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  aletheia version                # Human-readable build information
  aletheia version --format json  # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: a.runVersion,
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	return cmd
}

func (a *app) runVersion(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	info := version.Get()

	switch format {
	case "json":
		encoder := json.NewEncoder(a.stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			return fmt.Errorf("encoding version: %w", err)
		}
		return nil
	case "text":
		_, err := fmt.Fprintln(a.stdout, info.String())
		return err
	default:
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("unsupported format %q (supported: text, json)", format), nil)
	}
}
