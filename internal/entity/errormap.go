package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CellKey addresses one cell of one entity table.
type CellKey struct {
	Entity Type
	Row    int
	Column int
}

// String renders the key as "entity-row-column".
func (k CellKey) String() string {
	return fmt.Sprintf("%s-%d-%d", k.Entity, k.Row, k.Column)
}

// ParseCellKey parses the "entity-row-column" form produced by CellKey.String.
func ParseCellKey(s string) (CellKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return CellKey{}, fmt.Errorf("invalid cell key %q: want entity-row-column", s)
	}
	t, ok := ParseType(parts[0])
	if !ok {
		return CellKey{}, fmt.Errorf("invalid cell key %q: unknown entity %q", s, parts[0])
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return CellKey{}, fmt.Errorf("invalid cell key %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return CellKey{}, fmt.Errorf("invalid cell key %q: column: %w", s, err)
	}
	return CellKey{Entity: t, Row: row, Column: col}, nil
}

// ErrorMap holds one human-readable message per failing cell.
type ErrorMap map[CellKey]string

// Set records msg at (t, row, col), replacing any earlier message at that key.
func (m ErrorMap) Set(t Type, row, col int, msg string) {
	m[CellKey{Entity: t, Row: row, Column: col}] = msg
}

// Get returns the message at (t, row, col) if one exists.
func (m ErrorMap) Get(t Type, row, col int) (string, bool) {
	msg, ok := m[CellKey{Entity: t, Row: row, Column: col}]
	return msg, ok
}

// Merge copies every entry of other into m. Entries at keys present in both take
// other's message; keys only in m are left alone.
func (m ErrorMap) Merge(other ErrorMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Keys returns the keys sorted by entity, row, then column.
func (m ErrorMap) Keys() []CellKey {
	keys := make([]CellKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// SortKeys orders keys in place by entity, row, then column.
func SortKeys(keys []CellKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Entity != b.Entity {
			return a.Entity.order() < b.Entity.order()
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Column < b.Column
	})
}

// ForEntity returns the subset of entries belonging to t.
func (m ErrorMap) ForEntity(t Type) ErrorMap {
	out := ErrorMap{}
	for k, v := range m {
		if k.Entity == t {
			out[k] = v
		}
	}
	return out
}

// Flat returns the map keyed by the "entity-row-column" string form.
func (m ErrorMap) Flat() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}
