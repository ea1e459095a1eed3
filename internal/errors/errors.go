// Package errors provides categorized CLI errors that carry remediation steps.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies an error for display and exit code selection.
type ErrorCategory int

const (
	// Argument errors come from invalid flags, arguments or values.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or environment overrides.
	Configuration
	// Prerequisite errors mean a required file or service is missing.
	Prerequisite
	// Runtime errors happen while a command is doing its work.
	Runtime
)

// String returns the heading shown above the error message.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category, optional usage line and remediation steps.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	cause       error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewArgumentError creates an Argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an Argument error that shows the command usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a Configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a Prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a Runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category. Returns nil for a nil err.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, cause: err}
}

// WrapWithMessage is Wrap with message prepended to err's text.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", message, err.Error()),
		Remediation: remediation,
		cause:       err,
	}
}

// IsCLIError reports whether err is or wraps a CLIError.
func IsCLIError(err error) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr)
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
