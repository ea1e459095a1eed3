package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ConfigVersion is the artifact version written by GenerateConfig.
const ConfigVersion = "1.0.0"

// Config is the exported rules artifact.
type Config struct {
	Version  string   `json:"version"`
	Rules    []Rule   `json:"rules"`
	Metadata Metadata `json:"metadata"`
}

// Metadata summarizes a Config.
type Metadata struct {
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	TotalRules   int       `json:"totalRules"`
	EnabledRules int       `json:"enabledRules"`
}

// GenerateConfig builds a fresh artifact from rules stamped with the current time.
func GenerateConfig(rules []Rule) Config {
	return GenerateConfigAt(rules, ConfigVersion, now())
}

// GenerateConfigAt builds an artifact with an explicit version and timestamp.
// Rules are copied and stable-sorted by descending priority; the input slice is
// left untouched. Invalid and disabled rules are kept.
func GenerateConfigAt(rules []Rule, version string, at time.Time) Config {
	sorted := make([]Rule, 0, len(rules))
	enabled := 0
	for _, r := range rules {
		if r == nil {
			continue
		}
		sorted = append(sorted, r)
		if r.Meta().Enabled {
			enabled++
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Meta().Priority > sorted[j].Meta().Priority
	})

	ts := at.UTC()
	return Config{
		Version: version,
		Rules:   sorted,
		Metadata: Metadata{
			CreatedAt:    ts,
			UpdatedAt:    ts,
			TotalRules:   len(sorted),
			EnabledRules: enabled,
		},
	}
}

// UnmarshalJSON decodes the polymorphic rules array.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version  string            `json:"version"`
		Rules    []json.RawMessage `json:"rules"`
		Metadata Metadata          `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	list := make([]Rule, 0, len(raw.Rules))
	for i, item := range raw.Rules {
		r, err := Unmarshal(item)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		list = append(list, r)
	}
	*c = Config{Version: raw.Version, Rules: list, Metadata: raw.Metadata}
	return nil
}

// EncodeJSON renders c with two-space indentation and a trailing newline.
func EncodeJSON(c Config) ([]byte, error) {
	if c.Rules == nil {
		c.Rules = []Rule{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding rules config: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders c as YAML with the same key order as the JSON form.
func EncodeYAML(c Config) ([]byte, error) {
	data, err := EncodeJSON(c)
	if err != nil {
		return nil, err
	}
	return jsonToYAML(data)
}

// DecodeConfig parses a JSON or YAML artifact.
func DecodeConfig(data []byte) (Config, error) {
	js, err := YAMLToJSON(data)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := json.Unmarshal(js, &c); err != nil {
		return Config{}, fmt.Errorf("decoding rules config: %w", err)
	}
	return c, nil
}

// EncodeListJSON renders a bare rule list with two-space indentation.
func EncodeListJSON(list []Rule) ([]byte, error) {
	if list == nil {
		list = []Rule{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return nil, fmt.Errorf("encoding rule list: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeListYAML renders a bare rule list as YAML.
func EncodeListYAML(list []Rule) ([]byte, error) {
	data, err := EncodeListJSON(list)
	if err != nil {
		return nil, err
	}
	return jsonToYAML(data)
}
