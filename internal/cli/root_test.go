package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/ruleforge/ruleforge/internal/build"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Commands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	tests := map[string]struct {
		path  []string
		group string
	}{
		"validate": {path: []string{"validate"}, group: GroupData},
		"diff":     {path: []string{"diff"}, group: GroupData},
		"map":      {path: []string{"map"}, group: GroupData},
		"rules":    {path: []string{"rules"}, group: GroupRules},
		"config":   {path: []string{"config"}, group: GroupConfiguration},
		"version":  {path: []string{"version"}, group: GroupGettingStarted},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			found, _, err := cmd.Find(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.group, found.GroupID)
		})
	}
}

func TestNewRootCmd_RulesSubcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	for _, sub := range []string{"types", "new", "validate", "export", "generate", "suggest"} {
		found, _, err := cmd.Find([]string{"rules", sub})
		require.NoError(t, err, sub)
		assert.Equal(t, sub, found.Name())
	}
}

func TestVersionCmd(t *testing.T) {
	res := run(t, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ruleforge "+build.Version)
	assert.Contains(t, res.stdout, "commit: "+build.Commit)
}

func TestUnknownFlag_IsArgumentError(t *testing.T) {
	res := run(t, "validate", "--nope")
	require.Error(t, res.err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(res.err))
}

func TestPrintError(t *testing.T) {
	color.NoColor = true

	tests := map[string]struct {
		err  error
		want string
	}{
		"silent": {err: NewExitError(ExitValidationFailed), want: ""},
		"cli error": {
			err:  apperrors.NewArgumentError("bad input", "Try again"),
			want: "Argument Error: bad input\n\nTo fix this:\n  - Try again\n",
		},
		"plain error": {err: fmt.Errorf("boom"), want: "Runtime Error: boom\n"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tc.err)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
