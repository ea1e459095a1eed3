package config

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func init() {
	// Report koanf key names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateJSONSyntax checks if the JSON config file has valid syntax.
// A missing or empty file is valid and leaves the defaults in place.
func ValidateJSONSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return &ValidationError{FilePath: filePath, Message: "permission denied"}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateJSONSyntaxFromBytes(data, filePath)
}

// ValidateJSONSyntaxFromBytes checks if JSON data has valid syntax and is an object.
func ValidateJSONSyntaxFromBytes(data []byte, filePath string) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	var doc map[string]any
	if err := stdjson.Unmarshal(trimmed, &doc); err != nil {
		var syntaxErr *stdjson.SyntaxError
		if errors.As(err, &syntaxErr) {
			// Offsets count from the trimmed start; map back to the original data.
			offset := int(syntaxErr.Offset) + bytes.Index(data, trimmed)
			line, column := lineColumn(data, offset)
			return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: syntaxErr.Error()}
		}
		var typeErr *stdjson.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{FilePath: filePath, Message: "config must be a JSON object"}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return nil
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int) (int, int) {
	if offset > len(data) {
		offset = len(data)
	}
	if offset < 1 {
		return 1, 1
	}
	before := data[:offset]
	line := bytes.Count(before[:offset-1], []byte("\n")) + 1
	column := offset - 1 - bytes.LastIndexByte(before[:offset-1], '\n')
	return line, column
}

// ValidateConfigValues checks cfg against its struct tags.
// Returns nil if valid, or a ValidationError naming the first offending key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		FilePath: filePath,
		Field:    fe.Field(),
		Message:  describeFieldError(fe),
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("must be a valid URL, got %q", fe.Value())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
