package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/ruleforge/ruleforge/internal/testutil"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with an isolated home directory and no collaborator
// URLs. Callers must not be parallel since the environment is modified.
func run(t *testing.T, args ...string) result {
	t.Helper()
	isolate(t)

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--plain"))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// isolated records tests whose environment is already isolated, so repeated runs in
// one test share a home directory and keep collaborator URLs set after isolation.
var isolated = map[*testing.T]struct{}{}

// isolate prepares the environment once per test. Tests that point at a stand-in
// service call it before setting the URL.
func isolate(t *testing.T) {
	t.Helper()
	if _, ok := isolated[t]; ok {
		return
	}
	testutil.IsolateEnv(t)
	t.Setenv("RULEFORGE_SHOW_PROGRESS", "false")
	isolated[t] = struct{}{}
	t.Cleanup(func() { delete(isolated, t) })
}
