// Package internal contains the implementation packages for aletheia.
//
// # Package Organization
//
// The packages follow the order in which a verification run uses them:
//
//   - pathresolve: canonicalize and validate the target directory
//   - checks: the sixteen Bronze artifact checks
//   - security: symlink containment scan
//   - report: check results, warnings and the sealed report
//   - render: human, JSON and YAML output
//   - exitcode: map a report or fatal error to a process status
//   - verify: the stage machine tying the above together
//   - conformity: badge and conformity statement generation
//
// Supporting packages:
//
//   - config: flag and file configuration via Viper
//   - errors: structured error taxonomy
//   - logging: structured logging on log/slog
//   - version: build identity
//   - testutils: repository fixtures for tests
//
// # Filesystem Access
//
// Only metadata is read: stat, lstat, readlink and directory listings.
// No package opens a file for reading, and nothing runs concurrently.
//
// # Testing Strategy
//
//   - Unit tests with testify in every package
//   - Property tests with gopter behind the property build tag:
//     go test -tags property ./...
//   - End-to-end command tests in cmd driving Run with in-memory writers
package internal
