package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasksOnly() entity.Entities {
	return entity.Entities{
		Tasks: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Tasks),
			Rows: [][]entity.Cell{
				{"T1", "Build", "Dev", "1", "go", "1", "1"},
				{"T2", "Test", "Dev", "1", "go", "2", "1"},
			},
		},
	}
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRuleClient_Generate(t *testing.T) {
	t.Parallel()

	var got GenerateRequest
	var rawExisting struct {
		Context struct {
			ExistingRules []json.RawMessage `json:"existingRules"`
		} `json:"context"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NoError(t, json.Unmarshal(body, &rawExisting))
		var req struct {
			Request string `json:"request"`
		}
		assert.NoError(t, json.Unmarshal(body, &req))
		got.Request = req.Request
		_, _ = w.Write([]byte(`Here is the rule:
{"success": true,
 "rule": {"type":"coRun","name":"Pair","priority":7,"enabled":true,"tasks":["T1","T2"]},
 "reasoning": "both mentioned", "confidence": 1.4, "validationIssues": ["looks fine"]}`))
	}))
	defer server.Close()

	c := NewRuleClient(server.URL, "", time.Second)
	existing := []rules.Rule{&rules.LoadLimit{Base: rules.Base{ID: "l1", Name: "cap", Priority: 3}}}

	gen, err := c.Generate(context.Background(), "run T1 with T2", tasksOnly(), existing)
	require.NoError(t, err)

	assert.Equal(t, "run T1 with T2", got.Request)
	require.Len(t, rawExisting.Context.ExistingRules, 1)
	assert.Contains(t, string(rawExisting.Context.ExistingRules[0]), `"type":"loadLimit"`)

	assert.True(t, gen.Success)
	assert.True(t, gen.Accepted())
	assert.Equal(t, 1.0, gen.Confidence)
	assert.Equal(t, []string{"looks fine"}, gen.Issues)
	require.NotNil(t, gen.Rule)
	assert.Equal(t, rules.TypeCoRun, gen.Rule.Kind())
	assert.Regexp(t, `^coRun-\d+-[0-9a-f]{6}$`, gen.Rule.Meta().ID)
	assert.False(t, gen.Rule.Meta().CreatedAt.IsZero())
}

func TestRuleClient_GenerateRevalidatesLocally(t *testing.T) {
	t.Parallel()

	server := serve(t, `{"success":true,"confidence":0.9,"validationIssues":[],
		"rule":{"type":"phaseWindow","id":"pw","name":"late","priority":5,"taskId":"T9","allowedPhases":{"start":1,"end":2}}}`)

	gen, err := NewRuleClient(server.URL, "", time.Second).Generate(context.Background(), "x", tasksOnly(), nil)
	require.NoError(t, err)

	assert.True(t, gen.Success)
	assert.False(t, gen.Accepted())
	assert.Empty(t, gen.Issues)
	assert.Equal(t, []string{`Task ID "T9" not found in data`}, gen.Validation.Errors)
}

func TestRuleClient_GenerateSoftFailures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body    string
		wantErr string
	}{
		"not json":         {body: "Sorry, I cannot help with that.", wantErr: "Failed to parse AI response"},
		"missing success":  {body: `{"rule":null}`, wantErr: "Invalid response format from AI"},
		"service declined": {body: `{"success":false,"error":"ambiguous","reasoning":"r","confidence":0}`, wantErr: "ambiguous"},
		"no rule":          {body: `{"success":true}`, wantErr: "No rule returned"},
		"unknown rule":     {body: `{"success":true,"rule":{"type":"teleport"}}`, wantErr: `Invalid rule returned: decoding rule: unknown type "teleport"`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := serve(t, tc.body)

			gen, err := NewRuleClient(server.URL, "", time.Second).Generate(context.Background(), "x", tasksOnly(), nil)
			require.NoError(t, err)
			assert.False(t, gen.Success)
			assert.False(t, gen.Accepted())
			assert.Nil(t, gen.Rule)
			assert.Equal(t, tc.wantErr, gen.Error)
		})
	}
}

func TestRuleClient_GenerateTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gen, err := NewRuleClient(server.URL, "", time.Second).Generate(context.Background(), "x", tasksOnly(), nil)
	require.Error(t, err)
	assert.False(t, gen.Success)
	assert.Contains(t, gen.Error, "API Error")

	_, err = NewRuleClient("", "", time.Second).Generate(context.Background(), "x", tasksOnly(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRuleClient_Suggest(t *testing.T) {
	t.Parallel()

	server := serve(t, "```json\n"+`[
  {"id":"s1","type":"coRun","title":"Pair","confidence":1.5,"reasoning":"often together",
   "suggestedRule":{"type":"coRun","id":"r1","name":"Pair","priority":6,"enabled":true,"tasks":["T1","T2"]},
   "dataEvidence":[{"entity":"tasks","field":"TaskID","value":"T1","frequency":3}]},
  {"id":"s2","type":"coRun","confidence":0.5,"suggestedRule":{"type":"coRun"}},
  {"id":"s3","type":"oops","title":"Bad","confidence":0.5,"suggestedRule":{"type":"oops"}}
]`+"\n```")

	c := NewRuleClient("", "", time.Second)
	c.SetURLs("", server.URL)

	got, err := c.Suggest(context.Background(), tasksOnly(), nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, 1.0, got[0].Confidence)
	assert.Equal(t, "r1", got[0].Rule.Meta().ID)
	assert.True(t, got[0].Validation.IsValid)
	require.Len(t, got[0].Evidence, 1)
	assert.Equal(t, 3, got[0].Evidence[0].Frequency)
}

func TestRuleClient_SuggestWrappedAndUnparseable(t *testing.T) {
	t.Parallel()

	wrapped := serve(t, `{"suggestions":[{"id":"s1","type":"loadLimit","title":"Cap","confidence":0.4,
		"suggestedRule":{"type":"loadLimit","name":"Cap","priority":2,"workerGroup":"Ops","maxSlotsPerPhase":1}}]}`)
	got, err := NewRuleClient("", wrapped.URL, time.Second).Suggest(context.Background(), tasksOnly(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Validation.IsValid)

	junk := serve(t, "nothing to see")
	got, err = NewRuleClient("", junk.URL, time.Second).Suggest(context.Background(), tasksOnly(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRuleClient_SuggestDropsMalformedEntriesOnly(t *testing.T) {
	t.Parallel()

	server := serve(t, `[
  {"id":"s1","type":"coRun","title":"Pair","confidence":"high",
   "suggestedRule":{"type":"coRun","name":"Pair","priority":6,"tasks":["T1","T2"]}},
  {"id":"s2","type":"coRun","title":"Pair again","confidence":0.8,
   "suggestedRule":{"type":"coRun","name":"Pair","priority":6,"tasks":["T1","T2"]}}
]`)

	got, err := NewRuleClient("", server.URL, time.Second).Suggest(context.Background(), tasksOnly(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)
	assert.Equal(t, 0.8, got[0].Confidence)
}

func TestRuleClient_GenerateLenientTimestamps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		createdAt string
		want      time.Time
	}{
		"date only":   {createdAt: `"2024-01-01"`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		"no zone":     {createdAt: `"2024-01-01T10:30:00"`, want: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
		"rfc3339":     {createdAt: `"2024-01-01T10:30:00+02:00"`, want: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
		"placeholder": {createdAt: `"ISO timestamp"`},
		"empty":       {createdAt: `""`},
		"number":      {createdAt: `1704067200`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := serve(t, `{"success":true,"confidence":0.9,"rule":{"type":"coRun","name":"Pair","priority":5,
				"tasks":["T1","T2"],"createdAt":`+tc.createdAt+`,"updatedAt":"later"}}`)

			gen, err := NewRuleClient(server.URL, "", time.Second).Generate(context.Background(), "x", tasksOnly(), nil)
			require.NoError(t, err)
			require.True(t, gen.Success, gen.Error)
			assert.True(t, gen.Accepted())

			b := gen.Rule.Meta()
			if tc.want.IsZero() {
				assert.False(t, b.CreatedAt.IsZero())
			} else {
				assert.True(t, tc.want.Equal(b.CreatedAt), "createdAt = %v", b.CreatedAt)
			}
			assert.Equal(t, b.CreatedAt, b.UpdatedAt)
		})
	}
}
