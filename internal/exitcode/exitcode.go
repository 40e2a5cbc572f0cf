// Package exitcode maps verification outcomes to process exit statuses.
package exitcode

import (
	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/report"
)

// Code is a process exit status.
type Code int

const (
	// Compliant means every check passed and no critical warning was found.
	Compliant Code = 0
	// ChecksFailed means at least one check failed. Unexpected runtime
	// errors also use this code.
	ChecksFailed Code = 1
	// CriticalWarning means the scan found a critical security issue.
	CriticalWarning Code = 2
	// PathError means the target path is missing or not a directory.
	PathError Code = 3
	// InvalidArgument means the command line was rejected.
	InvalidArgument Code = 4
)

func (c Code) String() string {
	switch c {
	case Compliant:
		return "compliant"
	case ChecksFailed:
		return "checks failed"
	case CriticalWarning:
		return "critical security warning"
	case PathError:
		return "path error"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// Int returns the code as an int for os.Exit.
func (c Code) Int() int {
	return int(c)
}

// FromReport maps a completed report. A critical warning outranks failed
// checks.
func FromReport(r *report.Report) Code {
	switch {
	case r.HasCritical():
		return CriticalWarning
	case !r.AllChecksPassed():
		return ChecksFailed
	default:
		return Compliant
	}
}

// FromError maps an error that stopped the run before a report existed.
func FromError(err error) Code {
	switch {
	case err == nil:
		return Compliant
	case apperrors.IsPathError(err):
		return PathError
	case apperrors.IsArgumentError(err):
		return InvalidArgument
	default:
		return ChecksFailed
	}
}
