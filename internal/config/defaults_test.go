// Package config tests default configuration values.
// Related: internal/config/defaults.go
// Tags: config, defaults
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaults(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()
	assert.Equal(t, 30, defaults["timeout"])
	assert.Equal(t, "json", defaults["output_format"])
	assert.Equal(t, "1.0.0", defaults["rules_version"])
	assert.Equal(t, true, defaults["show_progress"])
	assert.Equal(t, 3, defaults["sample_rows"])
}

func TestGetDefaults_MatchSchema(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()
	assert.Len(t, defaults, len(KnownKeys))
	for key, schema := range KnownKeys {
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			value, ok := defaults[key]
			if assert.True(t, ok, "default missing for %s", key) {
				assert.Equal(t, schema.Default, value)
			}
		})
	}
}
