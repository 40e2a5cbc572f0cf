package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AletheiaError is a structured error type with context.
type AletheiaError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Component string
	Path      string
}

// Error implements the error interface.
func (e *AletheiaError) Error() string {
	var parts []string

	if e.Component != "" {
		parts = append(parts, e.Component+":")
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *AletheiaError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *AletheiaError) Is(target error) bool {
	var t *AletheiaError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithComponent adds component context.
func (e *AletheiaError) WithComponent(component string) *AletheiaError {
	e.Component = component

	return e
}

// Common error codes.
const (
	ErrCodePathNotFound      = "ERR_PATH_NOT_FOUND"
	ErrCodePathNotDirectory  = "ERR_PATH_NOT_DIRECTORY"
	ErrCodeInvalidArgument   = "ERR_INVALID_ARGUMENT"
	ErrCodeMetadataRead      = "ERR_METADATA_READ"
	ErrCodeSymlinkResolution = "ERR_SYMLINK_RESOLUTION"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// Sentinels usable with errors.Is; only Type and Code are compared.
var (
	ErrPathNotFound      = &AletheiaError{Type: ErrorTypeValidation, Code: ErrCodePathNotFound}
	ErrPathNotDirectory  = &AletheiaError{Type: ErrorTypeValidation, Code: ErrCodePathNotDirectory}
	ErrInvalidArgument   = &AletheiaError{Type: ErrorTypeValidation, Code: ErrCodeInvalidArgument}
	ErrConfigInvalid     = &AletheiaError{Type: ErrorTypeConfig, Code: ErrCodeConfigInvalid}
)

// Error creation functions

// NewPathNotFoundError reports a target path that does not exist.
func NewPathNotFoundError(path string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodePathNotFound,
		Message: "path does not exist: " + path,
		Cause:   cause,
		Path:    path,
	}
}

// NewPathNotDirectoryError reports a target path that is not a directory.
func NewPathNotDirectoryError(path string) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodePathNotDirectory,
		Message: "path is not a directory: " + path,
		Path:    path,
	}
}

// NewInvalidArgumentError creates a command-line argument error.
func NewInvalidArgumentError(message string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidArgument,
		Message: message,
		Cause:   cause,
	}
}

// NewMetadataReadError reports an artifact stat that failed for a reason
// other than absence. It degrades one check and never aborts the run.
func NewMetadataReadError(path string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeMetadataRead,
		Message: "cannot read metadata",
		Cause:   cause,
		Path:    path,
	}
}

// NewSymlinkResolutionError reports a cyclic or unreadable symbolic link. It
// becomes a warning and never aborts the run.
func NewSymlinkResolutionError(path, message string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeSecurity,
		Code:    ErrCodeSymlinkResolution,
		Message: message,
		Cause:   cause,
		Path:    path,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *AletheiaError {
	return &AletheiaError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsPathError reports whether err stems from resolving the target path.
func IsPathError(err error) bool {
	return errors.Is(err, ErrPathNotFound) || errors.Is(err, ErrPathNotDirectory)
}

// IsArgumentError reports whether err stems from command-line parsing or
// configuration validation.
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrConfigInvalid)
}
