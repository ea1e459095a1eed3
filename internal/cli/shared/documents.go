package shared

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ruleforge/ruleforge/internal/entity"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

// RequireDocument checks path names an existing JSON or YAML file.
func RequireDocument(path string) error {
	if _, err := workspace.FormatFor(path); err != nil {
		return apperrors.UnsupportedFormat(filepath.Ext(path))
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.MissingInputFile(path)
		}
		return apperrors.Wrap(err, apperrors.Runtime)
	}
	return nil
}

// LoadEntities loads an entities document, reporting problems as CLI errors.
func LoadEntities(path string) (entity.Entities, error) {
	if err := RequireDocument(path); err != nil {
		return entity.Entities{}, err
	}
	e, err := workspace.LoadEntities(path)
	if err != nil {
		return entity.Entities{}, apperrors.WrapWithMessage(err, apperrors.Argument, "invalid entities document",
			"Entity documents hold clients, workers and tasks tables of headers and rows")
	}
	return e, nil
}

// LoadTable loads a single sheet document.
func LoadTable(path string) (entity.Table, error) {
	if err := RequireDocument(path); err != nil {
		return entity.Table{}, err
	}
	t, err := workspace.LoadTable(path)
	if err != nil {
		return entity.Table{}, apperrors.WrapWithMessage(err, apperrors.Argument, "invalid sheet document",
			"A sheet document holds headers and rows")
	}
	return t, nil
}

// LoadRules loads a rule list or rules configuration. An empty path yields no rules.
func LoadRules(path string) ([]rules.Rule, error) {
	if path == "" {
		return nil, nil
	}
	if err := RequireDocument(path); err != nil {
		return nil, err
	}
	list, err := workspace.LoadRules(path)
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Argument, "invalid rules document",
			"Rules documents are a list of rules or an exported rules configuration")
	}
	return list, nil
}

// SaveError reports a failed write of path.
func SaveError(path string, err error) error {
	cliErr := apperrors.FileNotWritable(path)
	return apperrors.WrapWithMessage(err, cliErr.Category, cliErr.Message, cliErr.Remediation...)
}
