package validation

import (
	"strings"

	"github.com/ruleforge/ruleforge/internal/entity"
)

// ValidateRelationships cross-checks the three tables:
//   - every RequestedTaskIDs entry of a client must name a TaskID in the tasks table
//   - every RequiredSkills entry of a task must be held by at least one worker
//
// A check is skipped when a table it needs is empty or lacks the relevant column.
// Errors are reported at the referencing cell and list every unresolved entry.
func ValidateRelationships(e entity.Entities) entity.ErrorMap {
	errs := entity.ErrorMap{}
	checkRequestedTasks(e, errs)
	checkRequiredSkills(e, errs)
	return errs
}

// TaskIDSet returns the trimmed TaskIDs present in the tasks table.
func TaskIDSet(tasks entity.Table) map[string]struct{} {
	ids := map[string]struct{}{}
	idx := tasks.ColumnIndex(entity.FieldTaskID)
	if idx == -1 {
		return ids
	}
	for i := range tasks.Rows {
		v := tasks.Value(i, idx)
		if entity.IsEmpty(v) {
			continue
		}
		if id := strings.TrimSpace(entity.CellString(v)); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// SkillSet returns the case-folded union of all workers' Skills.
func SkillSet(workers entity.Table) map[string]struct{} {
	skills := map[string]struct{}{}
	idx := workers.ColumnIndex(entity.FieldSkills)
	if idx == -1 {
		return skills
	}
	for i := range workers.Rows {
		for _, s := range SplitList(workers.Value(i, idx)) {
			skills[strings.ToLower(s)] = struct{}{}
		}
	}
	return skills
}

// SplitList splits a comma-separated cell into trimmed, non-empty entries.
func SplitList(v entity.Cell) []string {
	if entity.IsEmpty(v) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(entity.CellString(v), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func checkRequestedTasks(e entity.Entities, errs entity.ErrorMap) {
	if len(e.Clients.Rows) == 0 || len(e.Tasks.Rows) == 0 {
		return
	}
	col := e.Clients.ColumnIndex(entity.FieldRequestedTaskIDs)
	if col == -1 {
		return
	}
	taskIDs := TaskIDSet(e.Tasks)
	if len(taskIDs) == 0 {
		return
	}

	for i := range e.Clients.Rows {
		var missing []string
		for _, id := range SplitList(e.Clients.Value(i, col)) {
			if _, ok := taskIDs[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			errs.Set(entity.Clients, i, col, "Requested tasks not found: "+strings.Join(missing, ", "))
		}
	}
}

func checkRequiredSkills(e entity.Entities, errs entity.ErrorMap) {
	if len(e.Tasks.Rows) == 0 || len(e.Workers.Rows) == 0 {
		return
	}
	col := e.Tasks.ColumnIndex(entity.FieldRequiredSkills)
	if col == -1 {
		return
	}
	skills := SkillSet(e.Workers)
	if len(skills) == 0 {
		return
	}

	for i := range e.Tasks.Rows {
		var missing []string
		for _, s := range SplitList(e.Tasks.Value(i, col)) {
			if _, ok := skills[strings.ToLower(s)]; !ok {
				missing = append(missing, s)
			}
		}
		if len(missing) > 0 {
			errs.Set(entity.Tasks, i, col, "Required skills not available: "+strings.Join(missing, ", "))
		}
	}
}
