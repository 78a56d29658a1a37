// Package errors provides centralized error definitions and error handling
// utilities for the Brain bridge. It defines the failure taxonomy of a bridge
// invocation (configuration, query, and persistence failures), typed errors
// with context wrapping, and classification helpers.
//
// # Error Types
//
// Sentinel errors identify the failure kind of a bridge invocation:
//   - ErrBridgeDisabled: the bridge is switched off in configuration
//   - ErrUnavailable: the MCP binary could not be started or its channel opened
//   - ErrTimeout: no complete response arrived within the configured timeout
//   - ErrProtocol: the response could not be parsed into the expected shape
//   - ErrRemote: the MCP process reported an application-level failure
//   - ErrWriteFailed: the context document could not be persisted
//
// Typed errors carry structured context:
//   - ConfigError: an invalid configuration field
//   - QueryError: a failed MCP exchange, wrapping one of the query sentinels
//   - WriteError: a failed document write
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewQueryError("get_pr_context", errors.ErrTimeout)
//	err = err.WithBin("/usr/local/bin/brain-mcp")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrTimeout) { ... }
//
//	var queryErr *errors.QueryError
//	if errors.As(err, &queryErr) { ... }
//
// Every failure kind defined here is absorbed by the bridge orchestrator;
// none propagates into the host's PR-handling flow.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Bridge lifecycle sentinel errors
var (
	// ErrBridgeDisabled indicates the bridge is disabled in configuration.
	// It is informational, not a failure.
	ErrBridgeDisabled = New("brain bridge is disabled")
	// ErrInvalidConfig indicates that configuration validation failed.
	ErrInvalidConfig = New("invalid bridge configuration")
)

// Query sentinel errors, one per failure mode of an MCP exchange
var (
	// ErrUnavailable indicates the MCP binary could not be started or its
	// stdio channel could not be opened.
	ErrUnavailable = New("brain MCP unavailable")
	// ErrTimeout indicates no complete response arrived within the timeout.
	ErrTimeout = New("brain MCP query timed out")
	// ErrProtocol indicates the response could not be parsed into the
	// expected shape.
	ErrProtocol = New("brain MCP protocol violation")
	// ErrRemote indicates the MCP process reported an application-level failure.
	ErrRemote = New("brain MCP remote error")
)

// Persistence sentinel errors
var (
	// ErrWriteFailed indicates the context document could not be written.
	ErrWriteFailed = New("context document write failed")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all typed errors.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// ConfigError represents an invalid configuration field.
//
// Example:
//
//	err := errors.NewConfigError("brain.mcp_timeout_seconds must be positive")
//	err = err.WithField("brain.mcp_timeout_seconds").WithValue(-1.0)
type ConfigError struct {
	baseError
	Field string
	Value any
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:   message,
			cause:     ErrInvalidConfig,
			severity:  SeverityWarning,
			retryable: false,
		},
	}
}

// WithField adds the configuration key to the error context.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.Field = field
	return e
}

// WithValue adds the offending value to the error context.
func (e *ConfigError) WithValue(value any) *ConfigError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "config error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("config error [%s]", strings.Join(parts, ", "))
	}

	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidConfig) {
		return true
	}
	return e.baseError.Is(target)
}

// QueryError represents a failed MCP exchange. It always wraps one of the
// query sentinels (ErrUnavailable, ErrTimeout, ErrProtocol, ErrRemote) so
// callers can classify it with errors.Is.
//
// Example:
//
//	err := errors.NewQueryError("get_pr_context", errors.ErrTimeout).
//		WithBin("/usr/local/bin/brain-mcp").
//		WithTimeout(20 * time.Second)
type QueryError struct {
	baseError
	Tool    string
	Bin     string
	Timeout time.Duration
}

// NewQueryError creates a new QueryError for the named MCP tool.
func NewQueryError(tool string, cause error) *QueryError {
	return &QueryError{
		baseError: baseError{
			message:   fmt.Sprintf("query %q failed", tool),
			cause:     cause,
			severity:  SeverityWarning,
			retryable: errors.Is(cause, ErrTimeout) || errors.Is(cause, ErrUnavailable),
		},
		Tool: tool,
	}
}

// WithBin adds the MCP binary path to the error context.
func (e *QueryError) WithBin(bin string) *QueryError {
	e.Bin = bin
	return e
}

// WithTimeout records the timeout that bounded the exchange.
func (e *QueryError) WithTimeout(d time.Duration) *QueryError {
	e.Timeout = d
	return e
}

// WithDetail wraps additional detail around the sentinel cause.
func (e *QueryError) WithDetail(detail string) *QueryError {
	e.cause = fmt.Errorf("%w: %s", e.cause, detail)
	return e
}

// Error returns the formatted error message.
func (e *QueryError) Error() string {
	var parts []string
	if e.Bin != "" {
		parts = append(parts, fmt.Sprintf("bin=%s", e.Bin))
	}
	if e.Timeout > 0 {
		parts = append(parts, fmt.Sprintf("timeout=%s", e.Timeout))
	}

	prefix := "query error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("query error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *QueryError) Is(target error) bool {
	if _, ok := target.(*QueryError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// WriteError represents a failure to persist the context document.
//
// Example:
//
//	err := errors.NewWriteError("/repo/BRAIN_QODO_CONTEXT.md", cause)
type WriteError struct {
	baseError
	Path string
}

// NewWriteError creates a new WriteError for the given document path.
func NewWriteError(path string, cause error) *WriteError {
	return &WriteError{
		baseError: baseError{
			message:   "failed to write context document",
			cause:     fmt.Errorf("%w: %v", ErrWriteFailed, cause),
			severity:  SeverityWarning,
			retryable: false,
		},
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *WriteError) Error() string {
	prefix := "write error"
	if e.Path != "" {
		prefix = fmt.Sprintf("write error [path=%s]", e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *WriteError) Is(target error) bool {
	if _, ok := target.(*WriteError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// classified is implemented by the typed errors in this package.
type classified interface {
	error
	Severity() Severity
	IsRetryable() bool
}

// IsQueryFailure reports whether err is one of the four query failure kinds.
func IsQueryFailure(err error) bool {
	return Is(err, ErrUnavailable) || Is(err, ErrTimeout) ||
		Is(err, ErrProtocol) || Is(err, ErrRemote)
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on a later invocation. The bridge itself never retries;
// this exists for operator-facing log annotation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var ce classified
	if As(err, &ce) {
		return ce.IsRetryable()
	}

	return Is(err, ErrTimeout) || Is(err, ErrUnavailable)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't carry a classification.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var ce classified
	if As(err, &ce) {
		return ce.Severity()
	}

	if Is(err, ErrBridgeDisabled) {
		return SeverityInfo
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
