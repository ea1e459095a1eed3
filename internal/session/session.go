// Package session holds the editing context for one import: the original tables as
// loaded, a working copy that receives edits, the set of cells that differ from the
// original, and the rule set authored against the data.
package session

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/logging"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/validation"
)

// Change describes one modified cell.
type Change struct {
	Key    entity.CellKey `json:"key"`
	Before entity.Cell    `json:"before"`
	After  entity.Cell    `json:"after"`
}

// Summary counts modified cells per entity.
type Summary struct {
	Clients int `json:"clients"`
	Workers int `json:"workers"`
	Tasks   int `json:"tasks"`
	Total   int `json:"total"`
}

// Session is safe for concurrent use. Tables handed in and out are deep copies.
// The rule set returned by Rules is the exception; see Rules.
type Session struct {
	mu       sync.RWMutex
	original entity.Entities
	working  entity.Entities
	modified map[entity.CellKey]struct{}

	// rulesMu serializes rule evaluation from Validate.
	rulesMu sync.Mutex
	rules   *rules.Set
}

// New returns an empty session.
func New() *Session {
	return &Session{
		modified: map[entity.CellKey]struct{}{},
		rules:    rules.NewSet(),
	}
}

// Rules returns the session's rule set. The set itself is not synchronized: callers
// editing it must not run Validate at the same time.
func (s *Session) Rules() *rules.Set {
	return s.rules
}

// Initialize replaces all three tables and clears every modification.
func (s *Session) Initialize(e entity.Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.original = e.Clone()
	s.working = e.Clone()
	s.modified = map[entity.CellKey]struct{}{}
}

// Import replaces one entity's table and clears that entity's modifications.
func (s *Session) Import(t entity.Type, tbl entity.Table) error {
	if _, ok := entity.ParseType(string(t)); !ok {
		return fmt.Errorf("importing table: unknown entity %q", t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	*s.original.Table(t) = tbl.Clone()
	*s.working.Table(t) = tbl.Clone()
	s.clearModified(t)
	logging.Debug("table imported", "entity", t, "rows", len(tbl.Rows))
	return nil
}

// UpdateCell writes value into the working copy. Rows and columns beyond the current
// extent are created. A cell whose new value equals the original loses its modified
// mark.
func (s *Session) UpdateCell(t entity.Type, row, col int, value entity.Cell) error {
	if _, ok := entity.ParseType(string(t)); !ok {
		return fmt.Errorf("updating cell: unknown entity %q", t)
	}
	if row < 0 || col < 0 {
		return fmt.Errorf("updating cell: negative position %d,%d", row, col)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl := s.working.Table(t)
	for len(tbl.Rows) <= row {
		tbl.Rows = append(tbl.Rows, nil)
	}
	for len(tbl.Rows[row]) <= col {
		tbl.Rows[row] = append(tbl.Rows[row], nil)
	}
	tbl.Rows[row][col] = value

	key := entity.CellKey{Entity: t, Row: row, Column: col}
	orig := s.original.Table(t)
	if inBounds(orig, row, col) && sameCell(orig.Rows[row][col], value) {
		delete(s.modified, key)
	} else {
		s.modified[key] = struct{}{}
	}
	return nil
}

// ResetEntity restores one table from the original snapshot.
func (s *Session) ResetEntity(t entity.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := entity.ParseType(string(t)); !ok {
		return
	}
	*s.working.Table(t) = s.original.Table(t).Clone()
	s.clearModified(t)
}

// ResetAll restores every table from the original snapshot.
func (s *Session) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = s.original.Clone()
	s.modified = map[entity.CellKey]struct{}{}
}

// Snapshot returns a copy of the working tables.
func (s *Session) Snapshot() entity.Entities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working.Clone()
}

// Original returns a copy of the tables as first loaded.
func (s *Session) Original() entity.Entities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original.Clone()
}

// IsModified reports whether a cell differs from the original.
func (s *Session) IsModified(t entity.Type, row, col int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.modified[entity.CellKey{Entity: t, Row: row, Column: col}]
	return ok
}

// HasChanges reports whether any cell of t is modified.
func (s *Session) HasChanges(t entity.Type) bool {
	return len(s.ModifiedCells(t)) > 0
}

// HasAnyChanges reports whether any cell of any table is modified.
func (s *Session) HasAnyChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modified) > 0
}

// ModifiedCells returns the modified keys of t in row, column order.
func (s *Session) ModifiedCells(t entity.Type) []entity.CellKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.CellKey
	for k := range s.modified {
		if k.Entity == t {
			out = append(out, k)
		}
	}
	entity.SortKeys(out)
	return out
}

// Summary counts modified cells per entity.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	for k := range s.modified {
		switch k.Entity {
		case entity.Clients:
			sum.Clients++
		case entity.Workers:
			sum.Workers++
		case entity.Tasks:
			sum.Tasks++
		}
	}
	sum.Total = sum.Clients + sum.Workers + sum.Tasks
	return sum
}

// Diff lists every modified cell with its original and current value.
func (s *Session) Diff() []Change {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]entity.CellKey, 0, len(s.modified))
	for k := range s.modified {
		keys = append(keys, k)
	}
	entity.SortKeys(keys)

	out := make([]Change, 0, len(keys))
	for _, k := range keys {
		out = append(out, Change{
			Key:    k,
			Before: s.original.Table(k.Entity).Value(k.Row, k.Column),
			After:  s.working.Table(k.Entity).Value(k.Row, k.Column),
		})
	}
	return out
}

// Validate runs a full validation cycle over a snapshot of the working tables and
// re-evaluates every rule against the same snapshot.
func (s *Session) Validate(ctx context.Context) (entity.ErrorMap, map[string]rules.Result, error) {
	snap := s.Snapshot()
	errs, err := validation.Run(ctx, snap)
	if err != nil {
		return nil, nil, fmt.Errorf("validating session: %w", err)
	}

	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()
	return errs, s.rules.Revalidate(snap), nil
}

func (s *Session) clearModified(t entity.Type) {
	for k := range s.modified {
		if k.Entity == t {
			delete(s.modified, k)
		}
	}
}

func inBounds(t *entity.Table, row, col int) bool {
	return row < len(t.Rows) && col < len(t.Rows[row])
}

// sameCell uses strict equality: "3" and 3 are different values.
func sameCell(a, b entity.Cell) bool {
	return reflect.DeepEqual(a, b)
}
