package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input  string
		want   Type
		wantOK bool
	}{
		"clients":          {input: "clients", want: Clients, wantOK: true},
		"workers":          {input: "workers", want: Workers, wantOK: true},
		"tasks padded":     {input: " tasks ", want: Tasks, wantOK: true},
		"null literal":     {input: "null", wantOK: false},
		"singular is bad":  {input: "client", wantOK: false},
		"empty is unknown": {input: "", wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseType(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsUnmapped(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUnmapped(""))
	assert.True(t, IsUnmapped("unmapped"))
	assert.True(t, IsUnmapped("null"))
	assert.False(t, IsUnmapped("TaskID"))
}

func TestCellString(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cell Cell
		want string
	}{
		"nil":          {cell: nil, want: ""},
		"string":       {cell: "T1", want: "T1"},
		"whole float":  {cell: float64(3), want: "3"},
		"frac float":   {cell: 2.5, want: "2.5"},
		"int":          {cell: 7, want: "7"},
		"bool":         {cell: true, want: "true"},
		"empty string": {cell: "", want: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CellString(tc.cell))
		})
	}
}

func TestTable_ValueHandlesRaggedRows(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Headers: []string{"TaskID", "TaskName"},
		Rows:    [][]Cell{{"T1"}, {"T2", "Build"}},
	}

	assert.Equal(t, "T1", tbl.Value(0, 0))
	assert.Nil(t, tbl.Value(0, 1))
	assert.Nil(t, tbl.Value(5, 0))
	assert.Equal(t, []Cell{nil, "Build"}, tbl.Column("TaskName"))
	assert.Nil(t, tbl.Column("Missing"))
}

func TestTable_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Table{
		Headers: []string{"TaskID"},
		Rows:    [][]Cell{{"T1"}},
		Mapping: &MappingInfo{Entity: Tasks, MappedHeaders: []string{"Task Id"}},
	}
	cp := orig.Clone()
	cp.Rows[0][0] = "T2"
	cp.Headers[0] = "changed"
	cp.Mapping.MappedHeaders[0] = "changed"

	assert.Equal(t, "T1", orig.Rows[0][0])
	assert.Equal(t, "TaskID", orig.Headers[0])
	assert.Equal(t, "Task Id", orig.Mapping.MappedHeaders[0])
}

func TestExpectedHeaders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ClientID", "ClientName", "PriorityLevel", "RequestedTaskIDs", "GroupTag", "AttributesJSON"}, ExpectedHeaders(Clients))
	assert.Len(t, ExpectedHeaders(Workers), 7)
	assert.Len(t, ExpectedHeaders(Tasks), 7)

	h := ExpectedHeaders(Tasks)
	h[0] = "mutated"
	assert.Equal(t, "TaskID", ExpectedHeaders(Tasks)[0], "callers must not alias the schema")
	assert.True(t, IsCanonicalField(Workers, "Skills"))
	assert.False(t, IsCanonicalField(Workers, "TaskID"))
}

func TestErrorMap(t *testing.T) {
	t.Parallel()

	m := ErrorMap{}
	m.Set(Tasks, 1, 4, "tasks problem")
	m.Set(Clients, 2, 3, "first")

	other := ErrorMap{}
	other.Set(Clients, 2, 3, "second")
	other.Set(Clients, 0, 0, "other")
	m.Merge(other)

	msg, ok := m.Get(Clients, 2, 3)
	require.True(t, ok)
	assert.Equal(t, "second", msg)
	assert.Len(t, m, 3)

	keys := m.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, CellKey{Entity: Clients, Row: 0, Column: 0}, keys[0])
	assert.Equal(t, CellKey{Entity: Clients, Row: 2, Column: 3}, keys[1])
	assert.Equal(t, CellKey{Entity: Tasks, Row: 1, Column: 4}, keys[2])

	assert.Len(t, m.ForEntity(Clients), 2)
	assert.Equal(t, "tasks problem", m.Flat()["tasks-1-4"])
}

func TestParseCellKey(t *testing.T) {
	t.Parallel()

	k, err := ParseCellKey("workers-3-2")
	require.NoError(t, err)
	assert.Equal(t, CellKey{Entity: Workers, Row: 3, Column: 2}, k)
	assert.Equal(t, "workers-3-2", k.String())

	for _, bad := range []string{"workers-3", "people-1-1", "tasks-x-1", "tasks-1-y"} {
		_, err := ParseCellKey(bad)
		assert.Error(t, err, bad)
	}
}
