package validation

import "github.com/ruleforge/ruleforge/internal/entity"

// sampleEntities returns a small, fully consistent data set.
func sampleEntities() entity.Entities {
	return entity.Entities{
		Clients: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Clients),
			Rows: [][]entity.Cell{
				{"C1", "Acme", float64(3), "T1,T2", "GroupA", `{"vip":true}`},
				{"C2", "Globex", "5", "T2", "GroupB", ""},
			},
		},
		Workers: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Workers),
			Rows: [][]entity.Cell{
				{"W1", "Ada", "go, sql", "[1,2,3]", float64(2), "Engineering", float64(7)},
				{"W2", "Grace", "Design", "2,3", "1", "Design", ""},
			},
		},
		Tasks: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Tasks),
			Rows: [][]entity.Cell{
				{"T1", "Build API", "Backend", float64(2), "Go,SQL", "1-3", float64(2)},
				{"T2", "Mockups", "Design", "1", "design", "[2]", "1"},
			},
		},
	}
}
