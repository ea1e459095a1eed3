package rules

import (
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleEntities() entity.Entities {
	return entity.Entities{
		Clients: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Clients),
			Rows: [][]entity.Cell{
				{"C1", "Acme", "3", "T1,T2", "Enterprise", ""},
				{"C2", "Globex", "5", "T2", "Startup", ""},
				{"C3", "Initech", "1", "T3", "Enterprise", ""},
			},
		},
		Workers: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Workers),
			Rows: [][]entity.Cell{
				{"W1", "Ada", "go", "[1,2]", "2", "Engineering", "7"},
				{"W2", "Grace", "design", "2,3", "1", "Design", ""},
				{"W3", "Linus", "c", "1", "1", "Engineering", ""},
			},
		},
		Tasks: entity.Table{
			Headers: entity.ExpectedHeaders(entity.Tasks),
			Rows: [][]entity.Cell{
				{"T1", "Build", "Backend", "2", "go", "1-3", "2"},
				{"T2", "Mockups", "Design", "1", "design", "[2]", "1"},
				{"T3", "Kernel", "Backend", "3", "c", "1", "1"},
			},
		},
	}
}

func base(name string, priority int) Base {
	return Base{ID: name, Name: name, Priority: priority, Enabled: true}
}

func intPtr(i int) *int { return &i }
