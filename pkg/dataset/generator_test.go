/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generator_test.go
Description: Tests for the table generator and the table helpers. Checks row counts,
cell types, schema order and the ordered record encoding.
*/

package dataset_test

import (
	"math/rand"
	"testing"
	"unicode"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(opts ...dataset.Option) *dataset.Generator {
	return dataset.NewGenerator(dataset.NewNamer(nil), newSynthesizer(), opts...)
}

// assertCellType checks that a non-missing cell matches its column type
func assertCellType(t *testing.T, typ dataset.SemanticType, v any) {
	t.Helper()
	if dataset.IsMissing(v) {
		return
	}
	switch typ {
	case dataset.String:
		assert.IsType(t, "", v)
	case dataset.Integer:
		assert.IsType(t, int64(0), v)
	case dataset.Float:
		assert.IsType(t, float64(0), v)
	}
}

// TestGenerateShape checks row counts and value types for random schemas
func TestGenerateShape(t *testing.T) {
	for _, rows := range []int{dataset.DefaultRowCount, 1, 12} {
		gen := newGenerator(dataset.WithRowCount(rows))
		for seed := int64(0); seed < 100; seed++ {
			rng := rand.New(rand.NewSource(seed))

			schema := make([]dataset.ColumnSpec, 1+rng.Intn(4))
			for i := range schema {
				schema[i] = dataset.ColumnSpec{
					Type:            allTypes[rng.Intn(len(allTypes))],
					Split:           rng.Intn(2) == 0,
					UseNames:        rng.Intn(2) == 0,
					AllowDuplicates: rng.Intn(2) == 0,
				}
			}

			table := gen.Generate(rng, schema)
			require.Equal(t, len(schema), table.Width())
			assert.Equal(t, rows, table.RowCount())
			assert.Len(t, table.Records(), rows)
			for i, col := range table.Columns {
				assert.Equal(t, schema[i].Type, col.Type)
				assert.Len(t, col.Values, rows)
				for _, v := range col.Values {
					assertCellType(t, col.Type, v)
				}
			}
		}
	}
}

// TestGenerateDefaultRows checks the default row count
func TestGenerateDefaultRows(t *testing.T) {
	gen := newGenerator()
	assert.Equal(t, 5, gen.Rows())

	table := gen.Generate(rand.New(rand.NewSource(1)), []dataset.ColumnSpec{{Type: dataset.Integer}})
	assert.Equal(t, 5, table.RowCount())
}

// TestGenerateStringAndInteger covers a plain string column next to an integer column
func TestGenerateStringAndInteger(t *testing.T) {
	gen := newGenerator()
	schema := []dataset.ColumnSpec{{Type: dataset.String}, {Type: dataset.Integer}}

	for seed := int64(0); seed < 200; seed++ {
		table := gen.Generate(rand.New(rand.NewSource(seed)), schema)
		require.Equal(t, 5, table.RowCount())

		for _, v := range table.Columns[1].Values {
			n := v.(int64)
			assert.True(t, n >= 0 && n < 100)
		}
		for _, v := range table.Columns[0].Values {
			for _, r := range v.(string) {
				assert.True(t, unicode.IsLetter(r), "unexpected separator %q", r)
			}
		}
	}
}

// TestRecordOrder checks that records keep column order in JSON
func TestRecordOrder(t *testing.T) {
	table := dataset.NewTable(
		&dataset.Column{Name: "zeta", Type: dataset.Integer, Values: []any{int64(1), int64(2)}},
		&dataset.Column{Name: "alpha", Type: dataset.String, Values: []any{"x", nil}},
		&dataset.Column{Name: "mid", Type: dataset.Float, Values: []any{1.5, -0.25}},
	)

	records := table.Records()
	require.Len(t, records, 2)

	data, err := json.Marshal(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"zeta":1,"alpha":"x","mid":1.5},{"zeta":2,"alpha":null,"mid":-0.25}]`, string(data))

	v, ok := records[1].Get("alpha")
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = records[1].Get("missing")
	assert.False(t, ok)
}

// TestRecordWholeFloats checks that whole floats keep a decimal point
func TestRecordWholeFloats(t *testing.T) {
	table := dataset.NewTable(
		&dataset.Column{Name: "fPct", Type: dataset.Float, Values: []any{0.0, -3.0, 2.5, nil}},
		&dataset.Column{Name: "n", Type: dataset.Integer, Values: []any{int64(0), int64(-3), int64(2), int64(1)}},
	)

	data, err := json.Marshal(table.Records())
	require.NoError(t, err)
	assert.Equal(t, `[{"fPct":0.0,"n":0},{"fPct":-3.0,"n":-3},{"fPct":2.5,"n":2},{"fPct":null,"n":1}]`, string(data))
}

// TestTableHelpers checks projection, row selection and cloning
func TestTableHelpers(t *testing.T) {
	table := dataset.NewTable(
		&dataset.Column{Name: "a", Type: dataset.Integer, Values: []any{int64(1), int64(2), int64(3)}},
		&dataset.Column{Name: "b", Type: dataset.String, Values: []any{"x", "y", "z"}},
	)

	projected := table.Project(1)
	assert.Equal(t, []string{"b"}, projected.Names())

	selected := table.SelectRows([]int{2, 0})
	assert.Equal(t, []any{int64(3), "z"}, selected.Row(0))
	assert.Equal(t, []any{int64(1), "x"}, selected.Row(1))

	clone := table.Clone()
	clone.Columns[0].Values[0] = int64(99)
	assert.Equal(t, int64(1), table.Columns[0].Values[0])

	table.AppendRows([]int{1})
	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, []any{int64(2), "y"}, table.Row(3))

	assert.Equal(t, 1, table.Index("b"))
	assert.Equal(t, -1, table.Index("c"))
	assert.Equal(t, []int{0}, table.Positions(dataset.SemanticType.IsNumeric))
}

// TestNewTableRejectsRaggedColumns checks the equal-length invariant
func TestNewTableRejectsRaggedColumns(t *testing.T) {
	assert.Panics(t, func() {
		dataset.NewTable(
			&dataset.Column{Name: "a", Values: []any{1}},
			&dataset.Column{Name: "b", Values: []any{1, 2}},
		)
	})
}
