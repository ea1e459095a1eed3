package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "RULEFORGE_"

// Configuration represents the ruleforge CLI configuration
type Configuration struct {
	MappingURL   string `koanf:"mapping_url" json:"mapping_url" validate:"omitempty,url"`
	RuleGenURL   string `koanf:"rulegen_url" json:"rulegen_url" validate:"omitempty,url"`
	SuggestURL   string `koanf:"suggest_url" json:"suggest_url" validate:"omitempty,url"`
	Timeout      int    `koanf:"timeout" json:"timeout" validate:"min=1,max=600"` // Seconds per collaborator call
	RulesVersion string `koanf:"rules_version" json:"rules_version" validate:"required"`
	OutputFormat string `koanf:"output_format" json:"output_format" validate:"oneof=json yaml"`
	LogFile      string `koanf:"log_file" json:"log_file"`
	ShowProgress bool   `koanf:"show_progress" json:"show_progress"` // Show spinners while waiting on collaborators
	SampleRows   int    `koanf:"sample_rows" json:"sample_rows" validate:"min=1,max=3"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Configuration) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// UserConfigPath returns the path of the global config file (~/.ruleforge/config.json).
func UserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ruleforge", "config.json"), nil
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath, err := UserConfigPath(); err == nil {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	cfg.LogFile = expandHomePath(cfg.LogFile)

	if err := ValidateConfigValues(&cfg, localConfigPath); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

var validate = validator.New()

// envTransform converts environment variable names to config keys
// Example: RULEFORGE_MAPPING_URL -> mapping_url
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// loadFile merges a JSON config file into k. Missing and blank files are skipped.
func loadFile(k *koanf.Koanf, path string) error {
	if !fileExists(path) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := ValidateJSONSyntaxFromBytes(data, path); err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return k.Load(file.Provider(path), json.Parser())
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
