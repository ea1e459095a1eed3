// Package workspace reads and writes the documents ruleforge works on: entity data
// sets, single raw sheets awaiting header mapping, rule lists and exported rules
// configurations. The format is chosen by file extension.
package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/rules"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
	}
}

// FormatFor returns the format implied by path's extension.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// LoadEntities reads a {clients, workers, tasks} document. Missing tables are empty.
func LoadEntities(path string) (entity.Entities, error) {
	var e entity.Entities
	if err := readDocument(path, &e); err != nil {
		return entity.Entities{}, fmt.Errorf("loading entities: %w", err)
	}
	return e, nil
}

// SaveEntities writes e to path.
func SaveEntities(path string, e entity.Entities) error {
	if err := writeDocument(path, e); err != nil {
		return fmt.Errorf("saving entities: %w", err)
	}
	return nil
}

// LoadTable reads a single {headers, rows} sheet.
func LoadTable(path string) (entity.Table, error) {
	var t entity.Table
	if err := readDocument(path, &t); err != nil {
		return entity.Table{}, fmt.Errorf("loading table: %w", err)
	}
	return t, nil
}

// SaveTable writes one sheet to path.
func SaveTable(path string, t entity.Table) error {
	if err := writeDocument(path, t); err != nil {
		return fmt.Errorf("saving table: %w", err)
	}
	return nil
}

// LoadRules reads either a bare list of rules or a full rules configuration.
func LoadRules(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	js, err := rules.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(js)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		list, err := rules.UnmarshalList(trimmed)
		if err != nil {
			return nil, fmt.Errorf("loading rules from %s: %w", path, err)
		}
		return list, nil
	}

	cfg, err := rules.DecodeConfig(trimmed)
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", path, err)
	}
	return cfg.Rules, nil
}

// SaveRules writes a bare rule list in the format implied by path.
func SaveRules(path string, list []rules.Rule) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	var data []byte
	if f == FormatYAML {
		data, err = rules.EncodeListYAML(list)
	} else {
		data, err = rules.EncodeListJSON(list)
	}
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// AppendRule adds r to the rule document at path, creating it when missing. The
// document is rewritten as a bare list.
func AppendRule(path string, r rules.Rule) error {
	list, err := LoadRules(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		list = nil
	}
	for _, existing := range list {
		if existing.Meta().ID == r.Meta().ID {
			return fmt.Errorf("appending rule %q: %w", r.Meta().ID, rules.ErrDuplicateID)
		}
	}
	return SaveRules(path, append(list, r))
}

// SaveConfig writes a rules configuration in the format implied by path.
func SaveConfig(path string, cfg rules.Config) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := EncodeConfig(cfg, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// EncodeConfig renders cfg in format f.
func EncodeConfig(cfg rules.Config, f Format) ([]byte, error) {
	if f == FormatYAML {
		return rules.EncodeYAML(cfg)
	}
	return rules.EncodeJSON(cfg)
}

func readDocument(path string, v any) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

func writeDocument(path string, v any) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		data = append(data, '\n')
	}
	return WriteFile(path, data)
}

// WriteFile writes through a temp file and rename so readers never see a partial document.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
