// Package config tests configuration key schema and value parsing.
// Related: internal/config/schema.go
// Tags: config, schema, validation
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ  ConfigValueType
		want string
	}{
		"bool":    {typ: TypeBool, want: "bool"},
		"int":     {typ: TypeInt, want: "int"},
		"string":  {typ: TypeString, want: "string"},
		"url":     {typ: TypeURL, want: "url"},
		"enum":    {typ: TypeEnum, want: "enum"},
		"unknown": {typ: ConfigValueType(99), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestGetKeySchema(t *testing.T) {
	t.Parallel()

	schema, err := GetKeySchema("output_format")
	require.NoError(t, err)
	assert.Equal(t, TypeEnum, schema.Type)
	assert.Equal(t, []string{"json", "yaml"}, schema.AllowedValues)

	_, err = GetKeySchema("max_retries")
	var unknown ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "max_retries", unknown.Key)
}

func TestKnownKeyNames_Sorted(t *testing.T) {
	t.Parallel()

	names := KnownKeyNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "suggest_url")
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"bool true":          {key: "show_progress", value: "TRUE", want: true},
		"bool false":         {key: "show_progress", value: "false", want: false},
		"bool invalid":       {key: "show_progress", value: "yes", wantErr: "invalid boolean"},
		"int in range":       {key: "timeout", value: "45", want: 45},
		"int not a number":   {key: "timeout", value: "soon", wantErr: "invalid integer"},
		"int below range":    {key: "sample_rows", value: "0", wantErr: "between 1 and 3"},
		"int above range":    {key: "timeout", value: "601", wantErr: "between 1 and 600"},
		"url valid":          {key: "mapping_url", value: "https://map.example.com/v1", want: "https://map.example.com/v1"},
		"url empty unsets":   {key: "rulegen_url", value: "", want: ""},
		"url missing scheme": {key: "suggest_url", value: "example.com/x", wantErr: "invalid URL"},
		"url wrong scheme":   {key: "suggest_url", value: "ftp://example.com", wantErr: "invalid URL"},
		"enum valid":         {key: "output_format", value: "yaml", want: "yaml"},
		"enum invalid":       {key: "output_format", value: "xml", wantErr: "valid options: json, yaml"},
		"string passthrough": {key: "rules_version", value: "2.1.0", want: "2.1.0"},
		"unknown key":        {key: "agent_preset", value: "x", wantErr: "unknown configuration key"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}
