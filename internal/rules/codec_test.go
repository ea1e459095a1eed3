package rules

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stamped(b Base) Base {
	b.Description = "desc"
	b.CreatedAt = fixedTime
	b.UpdatedAt = fixedTime
	return b
}

func everyVariant() []Rule {
	return []Rule{
		&CoRun{Base: stamped(base("co", 4)), Tasks: []string{"T1", "T2"}, MinTasks: intPtr(2)},
		&SlotRestriction{Base: stamped(base("slot", 3)), GroupType: GroupTypeWorker, GroupName: "Design", MinCommonSlots: 2, Phases: []int{1, 2}},
		&LoadLimit{Base: stamped(base("load", 8)), WorkerGroup: "Engineering", MaxSlotsPerPhase: 3},
		&PhaseWindow{Base: stamped(base("window", 6)), TaskID: "T1", AllowedPhases: PhaseSpec{Range: &PhaseRange{Start: 1, End: 3}}, Strict: true},
		&PatternMatch{
			Base: stamped(base("pattern", 2)), Regex: "^T", RuleTemplate: "flag",
			Parameters: map[string]any{"label": "core"}, TargetEntity: entity.Tasks, TargetField: entity.FieldTaskID,
		},
		&PrecedenceOverride{
			Base: stamped(base("override", 9)), Scope: ScopeSpecific,
			SpecificEntity: entity.Clients, SpecificField: entity.FieldPriorityLevel, OverrideValue: float64(5),
			Condition: &Condition{Field: entity.FieldGroupTag, Operator: OpContains, Value: "Ent"},
		},
	}
}

func TestRuleJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range everyVariant() {
		t.Run(string(r.Kind()), func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(r)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), `{"type":"`+string(r.Kind())+`","id":`), string(data))

			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestPhaseSpecJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    PhaseSpec
		wantErr bool
	}{
		"list":   {input: `[1,3]`, want: PhaseSpec{List: []int{1, 3}}},
		"range":  {input: `{"start":2,"end":5}`, want: PhaseSpec{Range: &PhaseRange{Start: 2, End: 5}}},
		"null":   {input: `null`, want: PhaseSpec{}},
		"scalar": {input: `4`, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var got PhaseSpec
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	data, err := json.Marshal(PhaseSpec{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"not json":     {input: `{`, want: "decoding rule"},
		"missing type": {input: `{"name":"x"}`, want: "missing type"},
		"unknown type": {input: `{"type":"teleport"}`, want: `unknown type "teleport"`},
		"bad payload":  {input: `{"type":"coRun","tasks":"T1"}`, want: "decoding coRun rule"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Unmarshal([]byte(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestUnmarshalList(t *testing.T) {
	t.Parallel()

	list, err := UnmarshalList([]byte(`[{"type":"loadLimit","id":"a","workerGroup":"Ops"},{"type":"coRun","id":"b"}]`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, TypeLoadLimit, list[0].Kind())
	assert.Equal(t, "Ops", list[0].(*LoadLimit).WorkerGroup)
	assert.Equal(t, "b", list[1].Meta().ID)

	_, err = UnmarshalList([]byte(`[{"type":"coRun"},{"type":"nope"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
}

func TestYAMLToJSON(t *testing.T) {
	t.Parallel()

	js, err := YAMLToJSON([]byte("type: phaseWindow\nid: w\nallowedPhases:\n  start: 1\n  end: 2\n"))
	require.NoError(t, err)

	r, err := Unmarshal(js)
	require.NoError(t, err)
	pw, ok := r.(*PhaseWindow)
	require.True(t, ok)
	assert.Equal(t, &PhaseRange{Start: 1, End: 2}, pw.AllowedPhases.Range)
}
