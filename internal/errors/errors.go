// Package errors defines the structured error types used across lume-cli.
//
// Errors carry a category, a short code, and a recoverable flag. Startup-time
// failures (bad config, unsupported mode, I/O during the initial synthesis)
// are not recoverable and terminate the process with a single error line.
// Failures inside a watcher-triggered pass are recoverable: they are logged
// and the watcher stays live.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeUnsupported ErrorType = "unsupported"
	ErrorTypeIO          ErrorType = "io"
	ErrorTypeInternal    ErrorType = "internal"
)

// LumeError is a structured error type with context.
type LumeError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Path        string
	Recoverable bool
}

// Error implements the error interface.
func (e *LumeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LumeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *LumeError) Is(target error) bool {
	var t *LumeError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithPath adds the file or directory path the error refers to.
func (e *LumeError) WithPath(path string) *LumeError {
	e.Path = path

	return e
}

// NewConfigError creates a configuration error. Configuration errors are
// fatal: the pages path pointing at a non-directory is the canonical case.
func NewConfigError(code, message string) *LumeError {
	return &LumeError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewUnsupportedError creates an error for a requested mode that has no
// implementation, such as server-side rendering.
func NewUnsupportedError(code, message string) *LumeError {
	return &LumeError{
		Type:        ErrorTypeUnsupported,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error. recoverable distinguishes a failed
// watcher pass (true) from a failed startup operation (false).
func NewIOError(code, message string, cause error, recoverable bool) *LumeError {
	return &LumeError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: recoverable,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *LumeError {
	return &LumeError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error may be logged and survived rather than
// terminating the process.
func IsRecoverable(err error) bool {
	var le *LumeError
	if errors.As(err, &le) {
		return le.Recoverable
	}

	return false
}

// IsUnsupported checks if an error is an unsupported-mode error.
func IsUnsupported(err error) bool {
	var le *LumeError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeUnsupported
	}

	return false
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	var le *LumeError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeConfig
	}

	return false
}
