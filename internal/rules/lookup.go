package rules

import (
	"strings"

	"github.com/ruleforge/ruleforge/internal/entity"
)

// AvailableTaskIDs returns the distinct TaskIDs of the tasks table in first-seen order.
func AvailableTaskIDs(e entity.Entities) []string {
	return distinctColumn(e.Tasks, entity.FieldTaskID)
}

// AvailableWorkerGroups returns the distinct WorkerGroup values of the workers table.
func AvailableWorkerGroups(e entity.Entities) []string {
	return distinctColumn(e.Workers, entity.FieldWorkerGroup)
}

// AvailableClientGroups returns the distinct GroupTag values of the clients table.
func AvailableClientGroups(e entity.Entities) []string {
	return distinctColumn(e.Clients, entity.FieldGroupTag)
}

func distinctColumn(t entity.Table, field string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, v := range t.Column(field) {
		s := strings.TrimSpace(entity.CellString(v))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
