// Package cmd provides the command-line interface for aletheia.
//
// The root command verifies a repository against the Rhodium Standard
// Repository Bronze tier and exits with a status describing the outcome.
// Every invocation builds its own command tree, Viper instance and logger,
// so nothing is shared between runs.
//
// # Available Commands
//
//   - aletheia [PATH]: verify PATH (default: the working directory)
//   - version: print build information
//   - badge [PATH]: print README badge markdown for PATH
//   - conformity [PATH]: print a conformity statement for PATH
//
// # Exit Codes
//
//	0  every check passed and no critical security warning
//	1  at least one check failed (also used for unexpected errors)
//	2  a symlink escapes the repository root
//	3  PATH does not exist or is not a directory
//	4  invalid command-line arguments or configuration
//
// # Examples
//
//	aletheia
//	aletheia ../other-repo --format json
//	aletheia --quiet --no-color
//	aletheia badge >> README.md
package cmd
