// Package testutil provides test utilities and helpers for ruleforge tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

// SampleEntities returns a small consistent data set: one client requesting T1,
// one worker offering go, and two tasks T1 and T2 that require go.
func SampleEntities() entity.Entities {
	return entity.Entities{
		Clients: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Clients),
			Rows:    [][]entity.Cell{{"C1", "Acme", "2", "T1", "G1", ""}},
		},
		Workers: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Workers),
			Rows:    [][]entity.Cell{{"W1", "Ada", "go", "1,2", "1", "Core", ""}},
		},
		Tasks: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Tasks),
			Rows: [][]entity.Cell{
				{"T1", "Build", "Dev", "1", "go", "1", "1"},
				{"T2", "Test", "Dev", "1", "go", "2", "1"},
			},
		},
	}
}

// CoRun returns an enabled co-run rule with priority 5.
func CoRun(id string, tasks ...string) *rules.CoRun {
	return &rules.CoRun{
		Base:  rules.Base{ID: id, Name: "Pair " + id, Priority: 5, Enabled: true},
		Tasks: tasks,
	}
}

// WriteEntities saves e as dir/name in the format the extension names.
func WriteEntities(t *testing.T, dir, name string, e entity.Entities) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := workspace.SaveEntities(path, e); err != nil {
		t.Fatalf("failed to write entities %s: %v", path, err)
	}
	return path
}

// WriteRules saves list as a bare rule list at dir/name.
func WriteRules(t *testing.T, dir, name string, list ...rules.Rule) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := workspace.SaveRules(path, list); err != nil {
		t.Fatalf("failed to write rules %s: %v", path, err)
	}
	return path
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// Serve starts a collaborator stand-in that answers every request with body.
// The server is closed when the test ends.
func Serve(t *testing.T, body string) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

// serviceEnvVars lists the environment variables that point at collaborator services.
var serviceEnvVars = []string{
	"RULEFORGE_MAPPING_URL",
	"RULEFORGE_RULEGEN_URL",
	"RULEFORGE_SUGGEST_URL",
}

// IsolateEnv points HOME at a fresh directory and blanks every collaborator URL so
// a test never reads the developer's config or reaches a real service. It uses
// t.Setenv, so the calling test must not be parallel.
func IsolateEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range serviceEnvVars {
		t.Setenv(key, "")
	}
	return home
}
