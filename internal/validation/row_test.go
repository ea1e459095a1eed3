package validation

import (
	"testing"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTable_ValidSample(t *testing.T) {
	t.Parallel()

	e := sampleEntities()
	for _, et := range entity.Types() {
		errs := ValidateTable(et, *e.Table(et))
		assert.Empty(t, errs, "entity %s", et)
	}
}

func TestValidateRow(t *testing.T) {
	t.Parallel()

	clientHeaders := entity.ExpectedHeaders(entity.Clients)
	workerHeaders := entity.ExpectedHeaders(entity.Workers)
	taskHeaders := entity.ExpectedHeaders(entity.Tasks)

	tests := map[string]struct {
		entity  entity.Type
		headers []string
		row     []entity.Cell
		want    map[int]string // column -> message
	}{
		"client priority out of range": {
			entity:  entity.Clients,
			headers: clientHeaders,
			row:     []entity.Cell{"C1", "Acme", "9", "T1", "", ""},
			want:    map[int]string{2: "PriorityLevel must be between 1 and 5"},
		},
		"client priority not numeric": {
			entity:  entity.Clients,
			headers: clientHeaders,
			row:     []entity.Cell{"C1", "Acme", "high", "T1", "", ""},
			want:    map[int]string{2: "PriorityLevel must be a number"},
		},
		"client priority fractional": {
			entity:  entity.Clients,
			headers: clientHeaders,
			row:     []entity.Cell{"C1", "Acme", "2.5", "T1", "", ""},
			want:    map[int]string{2: "PriorityLevel must be a whole number"},
		},
		"client missing required fields are independent": {
			entity:  entity.Clients,
			headers: clientHeaders,
			row:     []entity.Cell{"", "", "3", "", "", ""},
			want: map[int]string{
				0: "ClientID is required",
				1: "ClientName is required",
				3: "RequestedTaskIDs is required",
			},
		},
		"worker bad slots and load": {
			entity:  entity.Workers,
			headers: workerHeaders,
			row:     []entity.Cell{"W1", "Ada", "go", "1,2,0", "0", "", "11"},
			want: map[int]string{
				3: slotsSyntaxMsg,
				4: "MaxLoadPerPhase must be at least 1",
				6: "QualificationLevel must be between 1 and 10",
			},
		},
		"worker optional qualification empty": {
			entity:  entity.Workers,
			headers: workerHeaders,
			row:     []entity.Cell{"W1", "Ada", "go", "[1]", "2", "", nil},
			want:    map[int]string{},
		},
		"worker huge load is within bounds": {
			entity:  entity.Workers,
			headers: workerHeaders,
			row:     []entity.Cell{"W1", "Ada", "go", "[1]", "1e20", "", float64(1e300)},
			want:    map[int]string{6: "QualificationLevel must be between 1 and 10"},
		},
		"worker hugely negative load": {
			entity:  entity.Workers,
			headers: workerHeaders,
			row:     []entity.Cell{"W1", "Ada", "go", "[1]", "-1e20", "", ""},
			want:    map[int]string{4: "MaxLoadPerPhase must be at least 1"},
		},
		"task bad phases and duration": {
			entity:  entity.Tasks,
			headers: taskHeaders,
			row:     []entity.Cell{"T1", "Build", "Backend", "0.5", "go", "3-1", "x"},
			want: map[int]string{
				3: "Duration must be at least 1",
				5: phasesSyntaxMsg,
				6: "MaxConcurrent must be a number",
			},
		},
		"short row treats missing cells as empty": {
			entity:  entity.Tasks,
			headers: taskHeaders,
			row:     []entity.Cell{"T1", "Build", "Backend", "1", "go", "1"},
			want:    map[int]string{6: "MaxConcurrent is required"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			errs := ValidateRow(tc.entity, RowValues(tc.headers, tc.row), 4, tc.headers)
			require.Len(t, errs, len(tc.want))
			for col, msg := range tc.want {
				got, ok := errs.Get(tc.entity, 4, col)
				require.True(t, ok, "expected error at column %d", col)
				assert.Equal(t, msg, got)
			}
		})
	}
}

func TestValidateRow_SkipsUnmappedFields(t *testing.T) {
	t.Parallel()

	// PriorityLevel and RequestedTaskIDs have no source column.
	headers := []string{"ClientID", "ClientName", entity.Unmapped, "null", "GroupTag", "AttributesJSON"}
	row := []entity.Cell{"C1", "", "garbage", "garbage", "", ""}

	errs := ValidateRow(entity.Clients, RowValues(headers, row), 0, headers)

	require.Len(t, errs, 1)
	msg, ok := errs.Get(entity.Clients, 0, 1)
	require.True(t, ok)
	assert.Equal(t, "ClientName is required", msg)
}

func TestValidateRow_ReportsAtHeaderPosition(t *testing.T) {
	t.Parallel()

	// Columns in a non-canonical order still report at the header's own index.
	headers := []string{"Duration", "TaskID", "TaskName", "Category", "RequiredSkills", "PreferredPhases", "MaxConcurrent"}
	row := []entity.Cell{"0", "T1", "Build", "Backend", "go", "1", "1"}

	errs := ValidateRow(entity.Tasks, RowValues(headers, row), 2, headers)

	msg, ok := errs.Get(entity.Tasks, 2, 0)
	require.True(t, ok)
	assert.Equal(t, "Duration must be at least 1", msg)
}

func TestRowValues(t *testing.T) {
	t.Parallel()

	values := RowValues([]string{"TaskID", "unmapped", "TaskID", "TaskName"}, []entity.Cell{"T1", "x", "T9"})

	assert.Equal(t, "T1", values["TaskID"])
	assert.Nil(t, values["TaskName"])
	_, hasUnmapped := values["unmapped"]
	assert.False(t, hasUnmapped)
}

func TestValidateRow_UnknownEntity(t *testing.T) {
	t.Parallel()

	errs := ValidateRow(entity.Type("people"), map[string]entity.Cell{}, 0, nil)
	assert.Empty(t, errs)
}

func TestValidateRow_AgreesWithCellValidators(t *testing.T) {
	t.Parallel()

	headers := entity.ExpectedHeaders(entity.Workers)
	values := []entity.Cell{"0", "1", "1e20", "-1e20", float64(9.3e18), "3"}

	for _, v := range values {
		row := []entity.Cell{"W1", "Ada", "go", "[1]", v, "", ""}
		errs := ValidateRow(entity.Workers, RowValues(headers, row), 0, headers)
		got, rowFailed := errs.Get(entity.Workers, 0, 4)

		cellErr := ValidateCell(entity.Workers, entity.FieldMaxLoadPerPhase, v)
		if cellErr == nil {
			assert.False(t, rowFailed, "value %v: row error %q", v, got)
			continue
		}
		assert.Equal(t, cellErr.Error(), got, "value %v", v)
	}
}
