// Package errors tests the ready-made CLI error messages and their remediation steps.
// Related: internal/errors/messages.go
// Tags: errors, cli-errors, messages, remediation
package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
	}{
		"missing input":        {err: MissingInputFile("/data/entities.json"), category: Prerequisite, contains: "/data/entities.json"},
		"unsupported format":   {err: UnsupportedFormat("toml"), category: Argument, contains: "toml"},
		"invalid entity":       {err: InvalidEntityType("projects"), category: Argument, contains: "projects"},
		"invalid rule type":    {err: InvalidRuleType("fooRule"), category: Argument, contains: "fooRule"},
		"rule not found":       {err: RuleNotFound("coRun-1-abc"), category: Argument, contains: "coRun-1-abc"},
		"service unconfigured": {err: ServiceNotConfigured("header mapping", "mapping_url"), category: Prerequisite, contains: "header mapping"},
		"service error":        {err: ServiceError("rule generation", assert.AnError), category: Runtime, contains: "rule generation service call failed"},
		"config not found":     {err: ConfigFileNotFound("/path/to/config"), category: Configuration, contains: "/path/to/config"},
		"config parse":         {err: ConfigParseError("/path/to/config", assert.AnError), category: Configuration, contains: "/path/to/config"},
		"flag combination":     {err: InvalidFlagCombination("--out --stdout", "pick one"), category: Argument, contains: "--out --stdout"},
		"timeout":              {err: TimeoutError("30s", "header mapping"), category: Runtime, contains: "30s"},
		"not writable":         {err: FileNotWritable("/ro/rules.json"), category: Runtime, contains: "/ro/rules.json"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Message, tt.contains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

func TestServiceNotConfigured_NamesEnvVar(t *testing.T) {
	t.Parallel()

	err := ServiceNotConfigured("header mapping", "mapping_url")
	assert.Contains(t, err.Remediation, "Or set RULEFORGE_MAPPING_URL in the environment")
}
