package rules

// catalogEntry describes a rule type for listings and templates.
type catalogEntry struct {
	name        string
	description string
}

var catalog = map[Type]catalogEntry{
	TypeCoRun: {
		name:        "Co-Run Tasks",
		description: "Tasks that must run together in the same phase",
	},
	TypeSlotRestriction: {
		name:        "Slot Restriction",
		description: "A client or worker group must share a minimum number of common slots",
	},
	TypeLoadLimit: {
		name:        "Load Limit",
		description: "Caps the slots a worker group may take per phase",
	},
	TypePhaseWindow: {
		name:        "Phase Window",
		description: "Restricts a task to a list or range of phases",
	},
	TypePatternMatch: {
		name:        "Pattern Match",
		description: "Applies a rule template to records whose field matches a regex",
	},
	TypePrecedenceOverride: {
		name:        "Precedence Override",
		description: "Forces a value globally or for one field, optionally under a condition",
	},
}

// DisplayName returns a human-readable name for t, or the raw type string when unknown.
func DisplayName(t Type) string {
	if c, ok := catalog[t]; ok {
		return c.name
	}
	return string(t)
}

// Description returns a one-line description of t.
func Description(t Type) string {
	return catalog[t].description
}

// NewBase returns an envelope with a fresh id, priority 5, enabled, and both
// timestamps set to now.
func NewBase(t Type, name, description string) Base {
	ts := now().UTC()
	return Base{
		ID:          GenerateID(t),
		Name:        name,
		Description: description,
		Priority:    5,
		Enabled:     true,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// Template returns a new rule of type t with a NewBase envelope and an empty payload.
// It returns nil for an unknown type.
func Template(t Type, name, description string) Rule {
	r := New(t)
	if r == nil {
		return nil
	}
	*r.Meta() = NewBase(t, name, description)
	return r
}
