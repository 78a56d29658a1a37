package config

import (
	"fmt"
	"strings"

	"github.com/stephen-netu/brain-bridge/internal/errors"
)

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every validation failure found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap lets errors.Is match the invalid-config sentinel.
func (e ValidationErrors) Unwrap() error {
	return errors.ErrInvalidConfig
}

// Validate checks the resolved configuration. All failures are
// collected before returning so a single run reports everything.
func (c *Config) Validate() error {
	var errs ValidationErrors
	errs = append(errs, c.Brain.validate()...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (b BrainConfig) validate() ValidationErrors {
	var errs ValidationErrors

	if b.MCPTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "brain.mcp_timeout_seconds",
			Value:   b.MCPTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if b.MCPMaxModules < 0 {
		errs = append(errs, ValidationError{
			Field:   "brain.mcp_max_modules",
			Value:   b.MCPMaxModules,
			Message: "must not be negative",
		})
	}
	if b.MCPMaxRisks < 0 {
		errs = append(errs, ValidationError{
			Field:   "brain.mcp_max_risks",
			Value:   b.MCPMaxRisks,
			Message: "must not be negative",
		})
	}
	if b.MCPMaxJobs < 0 {
		errs = append(errs, ValidationError{
			Field:   "brain.mcp_max_jobs",
			Value:   b.MCPMaxJobs,
			Message: "must not be negative",
		})
	}
	if b.MCPEnable {
		if b.MCPBin == "" {
			errs = append(errs, ValidationError{
				Field:   "brain.mcp_bin",
				Value:   b.MCPBin,
				Message: "required when brain.mcp_enable is true",
			})
		}
		if b.MCPRoot == "" {
			errs = append(errs, ValidationError{
				Field:   "brain.mcp_root",
				Value:   b.MCPRoot,
				Message: "required when brain.mcp_enable is true",
			})
		}
	}

	return errs
}
