// Package config tests config file syntax checks and value validation.
// Related: internal/config/validate.go, internal/config/setter.go
// Tags: config, validation, json, errors
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with position": {
			err:  ValidationError{FilePath: "c.json", Line: 3, Column: 7, Message: "bad"},
			want: "c.json:3:7: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "c.json", Field: "timeout", Message: "must be at least 1"},
			want: "c.json: field 'timeout': must be at least 1",
		},
		"plain": {
			err:  ValidationError{FilePath: "c.json", Message: "permission denied"},
			want: "c.json: permission denied",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValidateJSONSyntaxFromBytes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data     string
		wantErr  bool
		wantLine int
		wantMsg  string
	}{
		"valid object": {data: `{"timeout": 5}`},
		"blank":        {data: " \n\t"},
		"trailing comma on line 3": {
			data:     "{\n  \"timeout\": 5,\n}",
			wantErr:  true,
			wantLine: 3,
		},
		"garbage on line 1": {
			data:     "@",
			wantErr:  true,
			wantLine: 1,
		},
		"array": {
			data:    `["timeout"]`,
			wantErr: true,
			wantMsg: "config must be a JSON object",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := ValidateJSONSyntaxFromBytes([]byte(tt.data), "config.json")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "config.json", vErr.FilePath)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, vErr.Line)
				assert.Positive(t, vErr.Column)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, vErr.Message)
			}
		})
	}
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	data := []byte("ab\ncd")
	tests := map[string]struct {
		offset     int
		wantLine   int
		wantColumn int
	}{
		"start":             {offset: 1, wantLine: 1, wantColumn: 1},
		"end of first line": {offset: 2, wantLine: 1, wantColumn: 2},
		"second line":       {offset: 5, wantLine: 2, wantColumn: 2},
		"zero clamps":       {offset: 0, wantLine: 1, wantColumn: 1},
		"past end clamps":   {offset: 99, wantLine: 2, wantColumn: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, column := lineColumn(data, tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
		})
	}
}

func TestValidateJSONSyntax_MissingFile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateJSONSyntax(filepath.Join(t.TempDir(), "nope.json")))
}

func TestValidateConfigValues(t *testing.T) {
	t.Parallel()

	valid := Configuration{
		Timeout:      30,
		RulesVersion: "1.0.0",
		OutputFormat: "json",
		SampleRows:   3,
	}

	tests := map[string]struct {
		mutate    func(c *Configuration)
		wantField string
	}{
		"valid":            {mutate: func(c *Configuration) {}},
		"missing version":  {mutate: func(c *Configuration) { c.RulesVersion = "" }, wantField: "rules_version"},
		"zero timeout":     {mutate: func(c *Configuration) { c.Timeout = 0 }, wantField: "timeout"},
		"bad format":       {mutate: func(c *Configuration) { c.OutputFormat = "csv" }, wantField: "output_format"},
		"bad mapping url":  {mutate: func(c *Configuration) { c.MappingURL = "::" }, wantField: "mapping_url"},
		"sample rows zero": {mutate: func(c *Configuration) { c.SampleRows = 0 }, wantField: "sample_rows"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := ValidateConfigValues(&cfg, "config.json")
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	require.NoError(t, SetConfigValue(path, "timeout", "45"))
	require.NoError(t, SetConfigValue(path, "output_format", "yaml"))
	require.NoError(t, SetConfigValue(path, "show_progress", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(45), doc["timeout"])
	assert.Equal(t, "yaml", doc["output_format"])
	assert.Equal(t, false, doc["show_progress"])
}

func TestSetConfigValue_PreservesOtherKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rules_version": "3.0.0"}`), 0o644))
	require.NoError(t, SetConfigValue(path, "sample_rows", "2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rules_version": "3.0.0", "sample_rows": 2}`, string(data))
}

func TestSetConfigValue_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))

	tests := map[string]struct {
		path    string
		key     string
		value   string
		wantErr string
	}{
		"unknown key":   {path: filepath.Join(dir, "a.json"), key: "nope", value: "1", wantErr: "unknown configuration key"},
		"invalid value": {path: filepath.Join(dir, "b.json"), key: "timeout", value: "0", wantErr: "between 1 and 600"},
		"broken file":   {path: broken, key: "timeout", value: "5", wantErr: "broken.json"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := SetConfigValue(tt.path, tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
