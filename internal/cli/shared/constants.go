// Package shared provides constants, runtime setup and output helpers used across
// CLI subpackages. It has no dependencies on other CLI packages.
package shared

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/ruleforge/ruleforge/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupGettingStarted = "getting-started"
	GroupData           = "data"
	GroupRules          = "rules"
	GroupConfiguration  = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitValidationFailed  = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
	ExitTimeout           = 5
)

// exitError carries an exit code for a failure that has already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsSilent reports whether err only carries an exit code and needs no message.
func IsSilent(err error) bool {
	var ee *exitError
	return errors.As(err, &ee)
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if IsTimeout(err) {
		return ExitTimeout
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case apperrors.Argument, apperrors.Configuration:
			return ExitInvalidArguments
		case apperrors.Prerequisite:
			return ExitMissingDependency
		}
	}
	return ExitValidationFailed
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
