package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ruleforge/ruleforge/internal/entity"
)

// Result is the outcome of validating one rule. Errors keeps every violation found,
// in check order.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

type collector struct {
	errs []string
}

func (c *collector) add(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// Validate checks r's structure and its references into e. The envelope is checked
// first (name, priority), then the variant payload. Nothing short-circuits: every
// applicable violation is reported. Enabled state does not affect validity.
func Validate(r Rule, e entity.Entities) Result {
	c := &collector{}
	if r == nil {
		c.add("Rule is required")
		return c.result()
	}

	b := r.Meta()
	if strings.TrimSpace(b.Name) == "" {
		c.add("Rule name is required")
	}
	if b.Priority < 1 || b.Priority > 10 {
		c.add("Priority must be between 1 and 10")
	}

	switch v := r.(type) {
	case *CoRun:
		validateCoRun(v, e, c)
	case *SlotRestriction:
		validateSlotRestriction(v, e, c)
	case *LoadLimit:
		validateLoadLimit(v, e, c)
	case *PhaseWindow:
		validatePhaseWindow(v, e, c)
	case *PatternMatch:
		validatePatternMatch(v, c)
	case *PrecedenceOverride:
		validatePrecedenceOverride(v, c)
	default:
		c.add("Unknown rule type: %s", r.Kind())
	}

	return c.result()
}

func (c *collector) result() Result {
	errs := c.errs
	if errs == nil {
		errs = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func validateCoRun(r *CoRun, e entity.Entities, c *collector) {
	if len(r.Tasks) < 2 {
		c.add("Co-run rule requires at least 2 tasks")
	}

	known := AvailableTaskIDs(e)
	var invalid, dupes []string
	seen := map[string]struct{}{}
	for _, id := range r.Tasks {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			dupes = append(dupes, id)
			continue
		}
		seen[id] = struct{}{}
		if !contains(known, id) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		c.add("Invalid task IDs: %s", strings.Join(invalid, ", "))
	}
	if len(dupes) > 0 {
		c.add("Duplicate task IDs: %s", strings.Join(dupes, ", "))
	}

	if r.MinTasks != nil && *r.MinTasks < 1 {
		c.add("Minimum tasks must be at least 1")
	}
	if r.MaxTasks != nil && *r.MaxTasks < 1 {
		c.add("Maximum tasks must be at least 1")
	}
	if r.MinTasks != nil && r.MaxTasks != nil && *r.MinTasks > *r.MaxTasks {
		c.add("Minimum tasks cannot exceed maximum tasks")
	}
	if r.MaxTasks != nil && len(r.Tasks) >= 2 && *r.MaxTasks > len(r.Tasks) {
		c.add("Maximum tasks cannot exceed the number of listed tasks (%d)", len(r.Tasks))
	}
}

func validateSlotRestriction(r *SlotRestriction, e entity.Entities, c *collector) {
	name := strings.TrimSpace(r.GroupName)
	if name == "" {
		c.add("Group name is required for slot restriction rule")
	}
	if r.MinCommonSlots < 1 {
		c.add("Minimum common slots must be at least 1")
	}

	switch r.GroupType {
	case GroupTypeWorker:
		if name != "" && !contains(AvailableWorkerGroups(e), name) {
			c.add("Worker group %q not found in data", name)
		}
	case GroupTypeClient:
		if name != "" && !contains(AvailableClientGroups(e), name) {
			c.add("Client group %q not found in data", name)
		}
	default:
		c.add("Group type must be %s or %s", GroupTypeClient, GroupTypeWorker)
	}

	checkPhaseList(r.Phases, "Phases", c)
}

func validateLoadLimit(r *LoadLimit, e entity.Entities, c *collector) {
	name := strings.TrimSpace(r.WorkerGroup)
	if name == "" {
		c.add("Worker group is required for load limit rule")
	}
	if r.MaxSlotsPerPhase < 1 {
		c.add("Maximum slots per phase must be at least 1")
	}
	if name != "" && !contains(AvailableWorkerGroups(e), name) {
		c.add("Worker group %q not found in data", name)
	}

	checkPhaseList(r.Phases, "Phases", c)
}

func validatePhaseWindow(r *PhaseWindow, e entity.Entities, c *collector) {
	id := strings.TrimSpace(r.TaskID)
	if id == "" {
		c.add("Task ID is required for phase window rule")
	} else if !contains(AvailableTaskIDs(e), id) {
		c.add("Task ID %q not found in data", id)
	}

	switch {
	case r.AllowedPhases.IsEmpty():
		c.add("Allowed phases must be specified")
	case r.AllowedPhases.Range != nil:
		rg := r.AllowedPhases.Range
		if rg.Start < 1 || rg.End < 1 {
			c.add("Allowed phase range bounds must be positive integers")
		} else if rg.Start > rg.End {
			c.add("Allowed phase range start cannot exceed end")
		}
	default:
		checkPhaseList(r.AllowedPhases.List, "Allowed phases", c)
	}
}

func validatePatternMatch(r *PatternMatch, c *collector) {
	if strings.TrimSpace(r.Regex) == "" {
		c.add("Regex pattern is required for pattern match rule")
	} else if _, err := regexp.Compile(r.Regex); err != nil {
		c.add("Invalid regex pattern: %v", err)
	}

	if strings.TrimSpace(r.RuleTemplate) == "" {
		c.add("Rule template is required for pattern match rule")
	}

	if r.TargetEntity == "" || strings.TrimSpace(r.TargetField) == "" {
		c.add("Target entity and field are required for pattern match rule")
		return
	}
	// TargetField is free text and may name an attribute key.
	if _, ok := entity.ParseType(string(r.TargetEntity)); !ok {
		c.add("Unknown target entity %q", r.TargetEntity)
	}
}

func validatePrecedenceOverride(r *PrecedenceOverride, c *collector) {
	switch r.Scope {
	case "":
		c.add("Scope is required for precedence override rule")
	case ScopeGlobal:
	case ScopeSpecific:
		if r.SpecificEntity == "" || strings.TrimSpace(r.SpecificField) == "" {
			c.add("Specific entity and field are required for specific scope precedence override")
		} else if t, ok := entity.ParseType(string(r.SpecificEntity)); !ok {
			c.add("Unknown specific entity %q", r.SpecificEntity)
		} else if !entity.IsCanonicalField(t, r.SpecificField) {
			c.add("Specific field %q is not a field of %s", r.SpecificField, t)
		}
	default:
		c.add("Scope must be %s or %s", ScopeGlobal, ScopeSpecific)
	}

	if r.OverrideValue == nil {
		c.add("Override value is required for precedence override rule")
	}

	if r.Condition != nil {
		if strings.TrimSpace(r.Condition.Field) == "" {
			c.add("Condition field is required")
		}
		if !isOperator(r.Condition.Operator) {
			c.add("Unknown condition operator %q", r.Condition.Operator)
		}
	}
}

func checkPhaseList(phases []int, label string, c *collector) {
	for _, p := range phases {
		if p < 1 {
			c.add("%s must be positive integers", label)
			return
		}
	}
}

func isOperator(op Operator) bool {
	for _, o := range Operators() {
		if o == op {
			return true
		}
	}
	return false
}
