// Package entity defines the three tabular datasets (clients, workers, tasks) that the
// validators and rule engine operate on, together with their fixed canonical schema and
// the cell-keyed error map that every validation pass writes into.
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies one of the three canonical datasets.
type Type string

const (
	// Clients holds client rows (ClientID, PriorityLevel, RequestedTaskIDs, ...).
	Clients Type = "clients"
	// Workers holds worker rows (WorkerID, Skills, AvailableSlots, ...).
	Workers Type = "workers"
	// Tasks holds task rows (TaskID, RequiredSkills, PreferredPhases, ...).
	Tasks Type = "tasks"
)

// Unmapped is the header placeholder for a canonical field that has no data source.
const Unmapped = "unmapped"

// Types returns all entity types in their canonical display order.
func Types() []Type {
	return []Type{Clients, Workers, Tasks}
}

// ParseType converts a string to a Type. The second return is false for anything
// other than the three known literals.
func ParseType(s string) (Type, bool) {
	switch Type(strings.TrimSpace(s)) {
	case Clients:
		return Clients, true
	case Workers:
		return Workers, true
	case Tasks:
		return Tasks, true
	default:
		return "", false
	}
}

// order returns the display position of t, used for deterministic sorting.
func (t Type) order() int {
	switch t {
	case Clients:
		return 0
	case Workers:
		return 1
	case Tasks:
		return 2
	default:
		return 3
	}
}

// IsUnmapped reports whether a header marks a column without a canonical field.
// The mapping service emits the literal "null"; an empty header is treated the same.
func IsUnmapped(header string) bool {
	h := strings.TrimSpace(header)
	return h == "" || h == Unmapped || h == "null"
}

// Cell is a single spreadsheet value: string, number, bool or nil.
type Cell = any

// IsEmpty reports whether a cell carries no value.
func IsEmpty(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// CellString renders a cell the way it would appear in the source sheet.
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// MappingInfo records how a table's headers were aligned to the canonical schema.
type MappingInfo struct {
	Entity        Type     `json:"entity,omitempty" yaml:"entity,omitempty"`
	MappedHeaders []string `json:"mappedHeaders" yaml:"mappedHeaders"`
	Confidence    float64  `json:"confidence" yaml:"confidence"`
	Reasoning     string   `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// Table is one dataset: an ordered header list and rows aligned positionally to it.
type Table struct {
	Headers []string     `json:"headers" yaml:"headers"`
	Rows    [][]Cell     `json:"rows" yaml:"rows"`
	Mapping *MappingInfo `json:"mappingInfo,omitempty" yaml:"mappingInfo,omitempty"`
}

// ColumnIndex returns the position of the named header, or -1 if it is absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named header is present.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) != -1
}

// Value returns the cell at (row, col). Out-of-range positions yield nil so ragged
// rows behave like rows padded with empty cells.
func (t *Table) Value(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}

// Column returns every row's value under the named header, or nil if the header is absent.
func (t *Table) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx == -1 {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, idx)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	if t.Mapping != nil {
		m := *t.Mapping
		m.MappedHeaders = append([]string(nil), t.Mapping.MappedHeaders...)
		out.Mapping = &m
	}
	return out
}

// Entities is the full data set of one session.
type Entities struct {
	Clients Table `json:"clients" yaml:"clients"`
	Workers Table `json:"workers" yaml:"workers"`
	Tasks   Table `json:"tasks" yaml:"tasks"`
}

// Table returns a pointer to the table for t, or nil for an unknown type.
func (e *Entities) Table(t Type) *Table {
	switch t {
	case Clients:
		return &e.Clients
	case Workers:
		return &e.Workers
	case Tasks:
		return &e.Tasks
	default:
		return nil
	}
}

// Clone returns a deep copy of all three tables.
func (e Entities) Clone() Entities {
	return Entities{
		Clients: e.Clients.Clone(),
		Workers: e.Workers.Clone(),
		Tasks:   e.Tasks.Clone(),
	}
}
