package entity

// Canonical field names. Column i of a mapped table holds field i of its entity.
const (
	FieldClientID         = "ClientID"
	FieldClientName       = "ClientName"
	FieldPriorityLevel    = "PriorityLevel"
	FieldRequestedTaskIDs = "RequestedTaskIDs"
	FieldGroupTag         = "GroupTag"
	FieldAttributesJSON   = "AttributesJSON"

	FieldWorkerID           = "WorkerID"
	FieldWorkerName         = "WorkerName"
	FieldSkills             = "Skills"
	FieldAvailableSlots     = "AvailableSlots"
	FieldMaxLoadPerPhase    = "MaxLoadPerPhase"
	FieldWorkerGroup        = "WorkerGroup"
	FieldQualificationLevel = "QualificationLevel"

	FieldTaskID          = "TaskID"
	FieldTaskName        = "TaskName"
	FieldCategory        = "Category"
	FieldDuration        = "Duration"
	FieldRequiredSkills  = "RequiredSkills"
	FieldPreferredPhases = "PreferredPhases"
	FieldMaxConcurrent   = "MaxConcurrent"
)

var expectedHeaders = map[Type][]string{
	Clients: {
		FieldClientID,
		FieldClientName,
		FieldPriorityLevel,
		FieldRequestedTaskIDs,
		FieldGroupTag,
		FieldAttributesJSON,
	},
	Workers: {
		FieldWorkerID,
		FieldWorkerName,
		FieldSkills,
		FieldAvailableSlots,
		FieldMaxLoadPerPhase,
		FieldWorkerGroup,
		FieldQualificationLevel,
	},
	Tasks: {
		FieldTaskID,
		FieldTaskName,
		FieldCategory,
		FieldDuration,
		FieldRequiredSkills,
		FieldPreferredPhases,
		FieldMaxConcurrent,
	},
}

// ExpectedHeaders returns the canonical field list for t in column order.
// The returned slice is a copy and may be modified by the caller.
func ExpectedHeaders(t Type) []string {
	return append([]string(nil), expectedHeaders[t]...)
}

// IsCanonicalField reports whether name is one of t's canonical fields.
func IsCanonicalField(t Type, name string) bool {
	for _, f := range expectedHeaders[t] {
		if f == name {
			return true
		}
	}
	return false
}

// NewTable returns an empty table carrying t's canonical headers.
func NewTable(t Type) Table {
	return Table{Headers: ExpectedHeaders(t), Rows: [][]Cell{}}
}
