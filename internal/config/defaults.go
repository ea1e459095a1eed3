package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"mapping_url":   "",
		"rulegen_url":   "",
		"suggest_url":   "",
		"timeout":       30,
		"rules_version": "1.0.0",
		"output_format": "json",
		"log_file":      "",
		"show_progress": true,
		"sample_rows":   3,
	}
}
