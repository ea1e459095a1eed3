package errors

import (
	"fmt"
	"strings"
)

// MissingInputFile reports a document argument that does not exist.
func MissingInputFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("input file not found: %s", path),
		"Check the path and try again",
		"Entity documents are JSON or YAML with clients, workers and tasks tables",
	)
}

// UnsupportedFormat reports a file extension or --format value that is neither JSON nor YAML.
func UnsupportedFormat(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unsupported format: %q", value),
		"Use json or yaml",
		"File formats are detected from the .json, .yaml or .yml extension",
	)
}

// InvalidEntityType reports an unknown entity name.
func InvalidEntityType(name string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown entity type: %q", name),
		"Use one of: clients, workers, tasks",
	)
}

// InvalidRuleType reports an unknown rule type.
func InvalidRuleType(name string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown rule type: %q", name),
		"Run 'ruleforge rules types' to list the supported types",
	)
}

// RuleNotFound reports a rule id missing from a rules document.
func RuleNotFound(id string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("rule not found: %s", id),
		"Check the id with 'ruleforge rules validate'",
	)
}

// ServiceNotConfigured reports a collaborator endpoint that has no URL.
func ServiceNotConfigured(service, key string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s service is not configured", service),
		fmt.Sprintf("Run 'ruleforge config set %s <url>'", key),
		fmt.Sprintf("Or set RULEFORGE_%s in the environment", strings.ToUpper(key)),
	)
}

// ServiceError reports a collaborator call that failed.
func ServiceError(service string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("%s service call failed", service),
		"Check that the service is reachable",
		"Run with --debug for request details",
	)
}

// ConfigFileNotFound reports an explicit --config path that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Create it with 'ruleforge config set <key> <value> --config "+path+"'",
	)
}

// ConfigParseError reports a config file that could not be loaded.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration, fmt.Sprintf("failed to load config %s", path),
		"Check the file is a JSON object",
		"Run 'ruleforge config keys' to list the valid keys",
	)
}

// InvalidFlagCombination reports flags that cannot be used together.
func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination %s: %s", flags, reason),
		"Run the command with --help for usage",
	)
}

// TimeoutError reports an operation that ran past its deadline.
func TimeoutError(duration, operation string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s timed out after %s", operation, duration),
		"Increase the timeout with 'ruleforge config set timeout <seconds>'",
	)
}

// FileNotWritable reports an output path that could not be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write file: %s", path),
		"Check the directory exists and is writable",
	)
}

