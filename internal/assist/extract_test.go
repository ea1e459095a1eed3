package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Entity string `json:"entity"`
	}

	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"plain":           {input: `{"entity":"tasks"}`, want: "tasks"},
		"fenced":          {input: "```json\n{\"entity\":\"workers\"}\n```", want: "workers"},
		"fenced no lang":  {input: "```\n{\"entity\":\"clients\"}```", want: "clients"},
		"embedded":        {input: `Sure! Here is the mapping: {"entity":"tasks"} Hope it helps.`, want: "tasks"},
		"nested braces":   {input: `note {"entity":"tasks","x":{"y":1}} end`, want: "tasks"},
		"no json":         {input: "I could not decide.", wantErr: true},
		"broken":          {input: `prefix {"entity": } suffix`, wantErr: true},
		"empty":           {input: "   ", wantErr: true},
		"reversed braces": {input: "} nothing {", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var got payload
			err := ExtractJSON(tc.input, &got)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Entity)
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	t.Parallel()

	var got []int
	require.NoError(t, ExtractJSONArray("Here you go: [1, 2, 3].", &got))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestStripFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "{}", StripFence("```json\n{}\n```"))
	assert.Equal(t, "text", StripFence("  text  "))
}
