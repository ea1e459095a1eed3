package cli

import (
	"github.com/ruleforge/ruleforge/internal/cli/shared"
)

// Exit codes for the ruleforge CLI (re-exported from shared)
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates data or rules failed validation
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependencies indicates a required file or service is missing
	ExitMissingDependencies = shared.ExitMissingDependency

	// ExitTimeout indicates a collaborator call timed out
	ExitTimeout = shared.ExitTimeout
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
