package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/aletheia/internal/config"
)

// addGlobalFlags adds the flags every command understands.
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "config file (default is .aletheia.yml in the working directory)")
	cmd.PersistentFlags().String("log-level", "error", "log level (debug, info, warn, error)")
}

// addOutputFlags adds the report presentation flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(config.FormatHuman), "output format ("+formatNames()+")")
	cmd.Flags().BoolP("quiet", "q", false, "print category totals, warning counts and the verdict only")
	cmd.Flags().BoolP("verbose", "v", false, "include check details, warning paths and the exit code")
	cmd.Flags().Bool("no-color", false, "disable coloured output")
}

// addVersionFlag defines -V/--version in place of cobra's default; -v is
// --verbose.
func addVersionFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("version", "V", false, "print the version and exit")
}

func formatNames() string {
	names := make([]string, 0, len(config.Formats()))
	for _, f := range config.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}
