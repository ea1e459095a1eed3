package config

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SetConfigValue sets a configuration value in a JSON config file.
// Validates the key and value against the schema before writing.
// Creates the file if it doesn't exist; other keys are preserved.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}

	doc, err := loadOrCreateJSON(filePath)
	if err != nil {
		return err
	}
	doc[key] = parsed.Parsed

	content, err := stdjson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	content = append(content, '\n')

	if err := writeAtomically(filePath, content); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// loadOrCreateJSON loads a JSON object or returns an empty one when the file is missing or blank.
func loadOrCreateJSON(filePath string) (map[string]any, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	if err := ValidateJSONSyntaxFromBytes(data, filePath); err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := stdjson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return doc, nil
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
// Creates parent directories if they don't exist.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// Clean up temp file on error
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = "" // Prevent cleanup since rename succeeded
	return nil
}
