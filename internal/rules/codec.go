package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Each variant marshals as a flat object: "type" first, then the envelope, then
// the variant payload.

func (r CoRun) MarshalJSON() ([]byte, error) {
	type plain CoRun
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeCoRun, plain(r)})
}

func (r SlotRestriction) MarshalJSON() ([]byte, error) {
	type plain SlotRestriction
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeSlotRestriction, plain(r)})
}

func (r LoadLimit) MarshalJSON() ([]byte, error) {
	type plain LoadLimit
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeLoadLimit, plain(r)})
}

func (r PhaseWindow) MarshalJSON() ([]byte, error) {
	type plain PhaseWindow
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypePhaseWindow, plain(r)})
}

func (r PatternMatch) MarshalJSON() ([]byte, error) {
	type plain PatternMatch
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypePatternMatch, plain(r)})
}

func (r PrecedenceOverride) MarshalJSON() ([]byte, error) {
	type plain PrecedenceOverride
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypePrecedenceOverride, plain(r)})
}

// MarshalJSON writes the range form as {"start":..,"end":..} and the list form as an array.
func (p PhaseSpec) MarshalJSON() ([]byte, error) {
	if p.Range != nil {
		return json.Marshal(p.Range)
	}
	if p.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.List)
}

// UnmarshalJSON accepts either an array of phases or a {"start","end"} object.
func (p *PhaseSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*p = PhaseSpec{}
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '[':
		return json.Unmarshal(trimmed, &p.List)
	case trimmed[0] == '{':
		var r PhaseRange
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return err
		}
		p.Range = &r
		return nil
	default:
		return fmt.Errorf("allowedPhases must be an array or a {start,end} object")
	}
}

// New returns an empty rule of type t, or nil for an unknown type.
func New(t Type) Rule {
	switch t {
	case TypeCoRun:
		return &CoRun{}
	case TypeSlotRestriction:
		return &SlotRestriction{}
	case TypeLoadLimit:
		return &LoadLimit{}
	case TypePhaseWindow:
		return &PhaseWindow{}
	case TypePatternMatch:
		return &PatternMatch{Parameters: map[string]any{}}
	case TypePrecedenceOverride:
		return &PrecedenceOverride{}
	default:
		return nil
	}
}

// Unmarshal decodes one rule, dispatching on its "type" field.
func Unmarshal(data []byte) (Rule, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding rule: %w", err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("decoding rule: missing type")
	}
	r := New(Type(head.Type))
	if r == nil {
		return nil, fmt.Errorf("decoding rule: unknown type %q", head.Type)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decoding %s rule: %w", head.Type, err)
	}
	return r, nil
}

// UnmarshalList decodes a JSON array of rules.
func UnmarshalList(data []byte) ([]Rule, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding rule list: %w", err)
	}
	out := make([]Rule, 0, len(raw))
	for i, item := range raw {
		r, err := Unmarshal(item)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// jsonToYAML re-renders a JSON document as block-style YAML, preserving key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("converting to yaml: %w", err)
	}
	resetStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// YAMLToJSON converts a YAML (or JSON) document into JSON so it can be fed to the
// rule decoder.
func YAMLToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting yaml to json: %w", err)
	}
	return out, nil
}
