package rules

import (
	"errors"
	"fmt"

	"github.com/ruleforge/ruleforge/internal/entity"
)

var (
	// ErrRuleNotFound is returned when an id is not in the set.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrDuplicateID is returned when adding a rule whose id is already taken.
	ErrDuplicateID = errors.New("duplicate rule id")
)

// Status is a rule's validity state.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

type entry struct {
	rule   Rule
	status Status
	result Result
}

// Set holds the authored rules in insertion order together with their validity.
// Deleting a rule removes it for good. A Set is not safe for concurrent use.
type Set struct {
	order []string
	items map[string]*entry
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{items: map[string]*entry{}}
}

// Add inserts r in Draft state. A missing id and zero timestamps are filled in.
func (s *Set) Add(r Rule) error {
	if r == nil {
		return fmt.Errorf("adding rule: nil rule")
	}
	b := r.Meta()
	if b.ID == "" {
		b.ID = GenerateID(r.Kind())
	}
	if _, ok := s.items[b.ID]; ok {
		return fmt.Errorf("adding rule %q: %w", b.ID, ErrDuplicateID)
	}
	ts := now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = ts
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	s.items[b.ID] = &entry{rule: r, status: StatusDraft}
	s.order = append(s.order, b.ID)
	return nil
}

// Update replaces the rule with r's id. CreatedAt is preserved, UpdatedAt is bumped
// and the rule returns to Draft until evaluated again.
func (s *Set) Update(r Rule) error {
	if r == nil {
		return fmt.Errorf("updating rule: nil rule")
	}
	b := r.Meta()
	e, ok := s.items[b.ID]
	if !ok {
		return fmt.Errorf("updating rule %q: %w", b.ID, ErrRuleNotFound)
	}
	b.CreatedAt = e.rule.Meta().CreatedAt
	b.UpdatedAt = now().UTC()
	e.rule = r
	e.status = StatusDraft
	e.result = Result{}
	return nil
}

// SetEnabled toggles a rule. Validity is unaffected.
func (s *Set) SetEnabled(id string, enabled bool) error {
	e, ok := s.items[id]
	if !ok {
		return fmt.Errorf("toggling rule %q: %w", id, ErrRuleNotFound)
	}
	b := e.rule.Meta()
	if b.Enabled != enabled {
		b.Enabled = enabled
		b.UpdatedAt = now().UTC()
	}
	return nil
}

// Delete removes a rule.
func (s *Set) Delete(id string) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("deleting rule %q: %w", id, ErrRuleNotFound)
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the rule with id.
func (s *Set) Get(id string) (Rule, bool) {
	e, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return e.rule, true
}

// List returns the rules in insertion order.
func (s *Set) List() []Rule {
	out := make([]Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].rule)
	}
	return out
}

// Len returns the number of rules.
func (s *Set) Len() int { return len(s.order) }

// Status returns the last evaluated status of id, Draft if it was never evaluated.
func (s *Set) Status(id string) (Status, error) {
	e, ok := s.items[id]
	if !ok {
		return "", fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
	}
	return e.status, nil
}

// Result returns the last validation result of id.
func (s *Set) Result(id string) (Result, error) {
	e, ok := s.items[id]
	if !ok {
		return Result{}, fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
	}
	return e.result, nil
}

// Evaluate validates one rule against ents and records its status.
func (s *Set) Evaluate(id string, ents entity.Entities) (Result, error) {
	e, ok := s.items[id]
	if !ok {
		return Result{}, fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
	}
	e.result = Validate(e.rule, ents)
	if e.result.IsValid {
		e.status = StatusValid
	} else {
		e.status = StatusInvalid
	}
	return e.result, nil
}

// Revalidate evaluates every rule, typically after the entity tables changed.
// It returns the results keyed by rule id.
func (s *Set) Revalidate(ents entity.Entities) map[string]Result {
	out := make(map[string]Result, len(s.order))
	for _, id := range s.order {
		res, _ := s.Evaluate(id, ents)
		out[id] = res
	}
	return out
}

// Config generates the export artifact for the current rules.
func (s *Set) Config() Config {
	return GenerateConfig(s.List())
}
