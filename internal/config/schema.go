package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeURL
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeURL:
		return "url"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name as written in the config file
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Min, Max      int             // Inclusive bounds for int types
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"mapping_url": {
		Path:        "mapping_url",
		Type:        TypeURL,
		Description: "Endpoint of the header-mapping service",
		Default:     "",
	},
	"rulegen_url": {
		Path:        "rulegen_url",
		Type:        TypeURL,
		Description: "Endpoint of the natural-language rule generator",
		Default:     "",
	},
	"suggest_url": {
		Path:        "suggest_url",
		Type:        TypeURL,
		Description: "Endpoint of the rule suggestion service",
		Default:     "",
	},
	"timeout": {
		Path:        "timeout",
		Type:        TypeInt,
		Min:         1,
		Max:         600,
		Description: "Seconds to wait for a collaborator response",
		Default:     30,
	},
	"rules_version": {
		Path:        "rules_version",
		Type:        TypeString,
		Description: "Version written into exported rules configurations",
		Default:     "1.0.0",
	},
	"output_format": {
		Path:          "output_format",
		Type:          TypeEnum,
		AllowedValues: []string{"json", "yaml"},
		Description:   "Default encoding for exported rules",
		Default:       "json",
	},
	"log_file": {
		Path:        "log_file",
		Type:        TypeString,
		Description: "Optional path of a rotated debug log",
		Default:     "",
	},
	"show_progress": {
		Path:        "show_progress",
		Type:        TypeBool,
		Description: "Show a spinner while waiting on collaborators",
		Default:     true,
	},
	"sample_rows": {
		Path:        "sample_rows",
		Type:        TypeInt,
		Min:         1,
		Max:         3,
		Description: "Rows sent to the mapping service as samples",
		Default:     3,
	},
}

// KnownKeyNames returns the registered keys in sorted order.
func KnownKeyNames() []string {
	names := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(schema, value)
	case TypeURL:
		return parseURLValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses an integer and checks the schema bounds.
func parseIntValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	if schema.Max > 0 && (n < schema.Min || n > schema.Max) {
		return ParsedValue{}, fmt.Errorf("%s must be between %d and %d", schema.Path, schema.Min, schema.Max)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseURLValue accepts an absolute http(s) URL, or empty to unset.
func parseURLValue(value string) (ParsedValue, error) {
	if value != "" {
		u, err := url.Parse(value)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return ParsedValue{}, fmt.Errorf("invalid URL: %q (expected http:// or https://)", value)
		}
	}
	return ParsedValue{Raw: value, Parsed: value, Type: TypeURL}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
