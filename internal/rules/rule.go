// Package rules models scheduling business rules as a closed set of six variants,
// validates them against live entity data, tracks their authoring lifecycle, and
// serializes them into a versioned, priority-ordered configuration artifact.
//
// Rule is a sealed interface: the only implementations are the six pointer types
// declared in this file. Every switch over a Rule in this package handles all six.
package rules

import (
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
)

// Type is the discriminant written to the "type" field of an exported rule.
type Type string

const (
	TypeCoRun              Type = "coRun"
	TypeSlotRestriction    Type = "slotRestriction"
	TypeLoadLimit          Type = "loadLimit"
	TypePhaseWindow        Type = "phaseWindow"
	TypePatternMatch       Type = "patternMatch"
	TypePrecedenceOverride Type = "precedenceOverride"
)

// Types returns every rule type in catalog order.
func Types() []Type {
	return []Type{
		TypeCoRun,
		TypeSlotRestriction,
		TypeLoadLimit,
		TypePhaseWindow,
		TypePatternMatch,
		TypePrecedenceOverride,
	}
}

// ParseType converts a string to a Type; ok is false for unknown strings.
func ParseType(s string) (Type, bool) {
	for _, t := range Types() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Rule is implemented by *CoRun, *SlotRestriction, *LoadLimit, *PhaseWindow,
// *PatternMatch and *PrecedenceOverride.
type Rule interface {
	// Kind returns the variant discriminant.
	Kind() Type
	// Meta returns the shared envelope. Mutations through it affect the rule.
	Meta() *Base
	sealed()
}

// Base holds the envelope fields common to every rule.
type Base struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Meta returns b itself.
func (b *Base) Meta() *Base { return b }

func (b *Base) sealed() {}

// CoRun requires its tasks to be scheduled together.
type CoRun struct {
	Base
	Tasks    []string `json:"tasks"`
	MinTasks *int     `json:"minTasks,omitempty"`
	MaxTasks *int     `json:"maxTasks,omitempty"`
}

// GroupType selects which entity a SlotRestriction group name refers to.
type GroupType string

const (
	GroupTypeClient GroupType = "clientGroup"
	GroupTypeWorker GroupType = "workerGroup"
)

// SlotRestriction requires a group to share at least MinCommonSlots slots.
type SlotRestriction struct {
	Base
	GroupType      GroupType `json:"groupType"`
	GroupName      string    `json:"groupName"`
	MinCommonSlots int       `json:"minCommonSlots"`
	Phases         []int     `json:"phases,omitempty"`
}

// LoadLimit caps how many slots a worker group takes per phase.
type LoadLimit struct {
	Base
	WorkerGroup      string `json:"workerGroup"`
	MaxSlotsPerPhase int    `json:"maxSlotsPerPhase"`
	Phases           []int  `json:"phases,omitempty"`
}

// PhaseWindow restricts the phases a task may run in.
type PhaseWindow struct {
	Base
	TaskID        string    `json:"taskId"`
	AllowedPhases PhaseSpec `json:"allowedPhases"`
	Strict        bool      `json:"strict,omitempty"`
}

// PhaseRange is an inclusive phase interval.
type PhaseRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PhaseSpec is either an explicit phase list or a range. Exactly one form is set
// on a well-formed value; Range takes precedence when both are.
type PhaseSpec struct {
	List  []int
	Range *PhaseRange
}

// IsEmpty reports whether neither form carries phases.
func (p PhaseSpec) IsEmpty() bool {
	return p.Range == nil && len(p.List) == 0
}

// PatternMatch applies RuleTemplate to records whose TargetField matches Regex.
type PatternMatch struct {
	Base
	Regex        string         `json:"regex"`
	RuleTemplate string         `json:"ruleTemplate"`
	Parameters   map[string]any `json:"parameters"`
	TargetEntity entity.Type    `json:"targetEntity"`
	TargetField  string         `json:"targetField"`
}

// Scope selects whether a PrecedenceOverride applies everywhere or to one field.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeSpecific Scope = "specific"
)

// Operator compares a condition field against a value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpContains    Operator = "contains"
)

// Operators returns every supported condition operator.
func Operators() []Operator {
	return []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpContains}
}

// Condition gates a PrecedenceOverride.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// PrecedenceOverride forces OverrideValue, optionally only when Condition holds.
type PrecedenceOverride struct {
	Base
	Scope          Scope       `json:"scope"`
	SpecificEntity entity.Type `json:"specificEntity,omitempty"`
	SpecificField  string      `json:"specificField,omitempty"`
	OverrideValue  any         `json:"overrideValue"`
	Condition      *Condition  `json:"condition,omitempty"`
}

func (*CoRun) Kind() Type              { return TypeCoRun }
func (*SlotRestriction) Kind() Type    { return TypeSlotRestriction }
func (*LoadLimit) Kind() Type          { return TypeLoadLimit }
func (*PhaseWindow) Kind() Type        { return TypePhaseWindow }
func (*PatternMatch) Kind() Type       { return TypePatternMatch }
func (*PrecedenceOverride) Kind() Type { return TypePrecedenceOverride }
