package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/logging"
	"github.com/ruleforge/ruleforge/internal/rules"
)

// GenerateRequest is the body sent to the rule-generation service.
type GenerateRequest struct {
	Request  string          `json:"request"`
	Entities entity.Entities `json:"entities"`
	Context  GenerateContext `json:"context"`
}

// GenerateContext carries optional extra context for generation.
type GenerateContext struct {
	ExistingRules []rules.Rule `json:"existingRules"`
}

type rawGeneration struct {
	Success          *bool           `json:"success"`
	Rule             json.RawMessage `json:"rule"`
	Error            string          `json:"error"`
	Reasoning        string          `json:"reasoning"`
	Confidence       *float64        `json:"confidence"`
	ValidationIssues []string        `json:"validationIssues"`
}

// Generation is a normalized rule-generation answer. Issues are the service's own
// remarks and are advisory; Validation is the local verdict on Rule.
type Generation struct {
	Success    bool         `json:"success"`
	Rule       rules.Rule   `json:"rule,omitempty"`
	Error      string       `json:"error,omitempty"`
	Reasoning  string       `json:"reasoning"`
	Confidence float64      `json:"confidence"`
	Issues     []string     `json:"validationIssues,omitempty"`
	Validation rules.Result `json:"validation"`
}

// Accepted reports whether the generated rule may be added to a rule set.
func (g Generation) Accepted() bool {
	return g.Success && g.Rule != nil && g.Validation.IsValid
}

func failedGeneration(msg string) Generation {
	return Generation{Error: msg, Reasoning: msg, Validation: rules.Result{Errors: []string{}}}
}

// SuggestRequest is the body sent to the rule-suggestion service.
type SuggestRequest struct {
	Entities      entity.Entities `json:"entities"`
	ExistingRules []rules.Rule    `json:"existingRules"`
}

// Evidence is a data point a suggestion was derived from.
type Evidence struct {
	Entity    string `json:"entity"`
	Field     string `json:"field"`
	Value     any    `json:"value"`
	Frequency int    `json:"frequency"`
}

// Suggestion is a rule proposed from patterns in the data.
type Suggestion struct {
	ID          string       `json:"id"`
	Type        rules.Type   `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Confidence  float64      `json:"confidence"`
	Reasoning   string       `json:"reasoning"`
	Rule        rules.Rule   `json:"suggestedRule"`
	Evidence    []Evidence   `json:"dataEvidence,omitempty"`
	Validation  rules.Result `json:"validation"`
}

type rawSuggestion struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Confidence  *float64        `json:"confidence"`
	Reasoning   string          `json:"reasoning"`
	Rule        json.RawMessage `json:"suggestedRule"`
	Evidence    []Evidence      `json:"dataEvidence"`
}

// RuleClient calls the rule-generation and rule-suggestion services.
type RuleClient struct {
	generate poster
	suggest  poster
}

// NewRuleClient returns a client. Either URL may be empty; the matching call then
// fails with ErrNotConfigured.
func NewRuleClient(generateURL, suggestURL string, timeout time.Duration) *RuleClient {
	return &RuleClient{
		generate: newPoster(generateURL, timeout),
		suggest:  newPoster(suggestURL, timeout),
	}
}

// SetURLs points the client at other endpoints. Intended for tests.
func (c *RuleClient) SetURLs(generateURL, suggestURL string) {
	c.generate.url = generateURL
	c.suggest.url = suggestURL
}

// Generate turns a natural-language request into a rule. Transport failures are
// returned as errors. Any answer that arrives is normalized: an unparseable or
// malformed body yields Success=false, and a returned rule is decoded and validated
// against ents.
func (c *RuleClient) Generate(ctx context.Context, request string, ents entity.Entities, existing []rules.Rule) (Generation, error) {
	if existing == nil {
		existing = []rules.Rule{}
	}
	text, err := c.generate.post(ctx, GenerateRequest{
		Request:  request,
		Entities: ents,
		Context:  GenerateContext{ExistingRules: existing},
	})
	if err != nil {
		return failedGeneration(fmt.Sprintf("API Error: %v", err)), fmt.Errorf("generating rule: %w", err)
	}

	var raw rawGeneration
	if err := ExtractJSON(text, &raw); err != nil {
		logging.Warn("rule generation response could not be parsed", "error", err)
		return failedGeneration("Failed to parse AI response"), nil
	}
	return normalizeGeneration(raw, ents), nil
}

// normalizeGeneration validates a decoded answer.
func normalizeGeneration(raw rawGeneration, ents entity.Entities) Generation {
	if raw.Success == nil {
		return failedGeneration("Invalid response format from AI")
	}

	g := Generation{
		Success:    *raw.Success,
		Error:      raw.Error,
		Reasoning:  raw.Reasoning,
		Issues:     raw.ValidationIssues,
		Validation: rules.Result{Errors: []string{}},
	}
	if raw.Confidence != nil {
		g.Confidence = clamp01(*raw.Confidence)
	}
	if !g.Success {
		return g
	}

	if len(raw.Rule) == 0 || string(raw.Rule) == "null" {
		g.Success = false
		if g.Error == "" {
			g.Error = "No rule returned"
		}
		return g
	}
	r, err := decodeRule(raw.Rule)
	if err != nil {
		g.Success = false
		g.Error = fmt.Sprintf("Invalid rule returned: %v", err)
		return g
	}
	fillEnvelope(r)
	g.Rule = r
	g.Validation = rules.Validate(r, ents)
	return g
}

// Suggest asks the service for rules implied by patterns in ents. Entries missing an
// id, type, title, confidence or rule are dropped, as are rules that do not decode.
func (c *RuleClient) Suggest(ctx context.Context, ents entity.Entities, existing []rules.Rule) ([]Suggestion, error) {
	if existing == nil {
		existing = []rules.Rule{}
	}
	text, err := c.suggest.post(ctx, SuggestRequest{Entities: ents, ExistingRules: existing})
	if err != nil {
		return nil, fmt.Errorf("suggesting rules: %w", err)
	}

	var items []json.RawMessage
	if err := ExtractJSONArray(text, &items); err != nil {
		// Services may wrap the list as {"suggestions": [...]}.
		var wrapped struct {
			Suggestions []json.RawMessage `json:"suggestions"`
		}
		if werr := ExtractJSON(text, &wrapped); werr != nil {
			logging.Warn("rule suggestion response could not be parsed", "error", err)
			return []Suggestion{}, nil
		}
		items = wrapped.Suggestions
	}

	out := make([]Suggestion, 0, len(items))
	for i, item := range items {
		var s rawSuggestion
		if err := json.Unmarshal(item, &s); err != nil {
			logging.Debug("dropping suggestion", "index", i, "error", err)
			continue
		}
		if s.ID == "" || s.Type == "" || s.Title == "" || s.Confidence == nil || len(s.Rule) == 0 {
			continue
		}
		r, err := decodeRule(s.Rule)
		if err != nil {
			logging.Debug("dropping suggestion", "id", s.ID, "error", err)
			continue
		}
		fillEnvelope(r)
		out = append(out, Suggestion{
			ID:          s.ID,
			Type:        r.Kind(),
			Title:       s.Title,
			Description: s.Description,
			Confidence:  clamp01(*s.Confidence),
			Reasoning:   s.Reasoning,
			Rule:        r,
			Evidence:    s.Evidence,
			Validation:  rules.Validate(r, ents),
		})
	}
	return out, nil
}

// fillEnvelope assigns an id and timestamps the service left out.
func fillEnvelope(r rules.Rule) {
	b := r.Meta()
	if b.ID == "" {
		b.ID = rules.GenerateID(r.Kind())
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
}

// timestampLayouts are tried in order on envelope timestamps from a service.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeRule decodes a rule written by a service. Envelope timestamps that do not
// parse are left zero for fillEnvelope to stamp.
func decodeRule(data []byte) (rules.Rule, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding rule: %w", err)
	}
	createdAt := parseTimestamp(fields["createdAt"])
	updatedAt := parseTimestamp(fields["updatedAt"])
	delete(fields, "createdAt")
	delete(fields, "updatedAt")

	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("decoding rule: %w", err)
	}
	r, err := rules.Unmarshal(stripped)
	if err != nil {
		return nil, err
	}
	b := r.Meta()
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
	return r, nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
