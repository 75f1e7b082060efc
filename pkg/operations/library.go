/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: library.go
Description: Operation library. Every operation builds a schema for what it needs, asks the
table generator for an input table, draws its own random parameters and derives the output
table. Shared schema and cell helpers live here.
*/

package operations

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/shopspring/decimal"
)

// Library generates input/output table pairs for every operation
type Library struct {
	gen *dataset.Generator
}

// NewLibrary creates a library on top of a table generator
func NewLibrary(gen *dataset.Generator) *Library {
	if gen == nil {
		panic("operations: library needs a table generator")
	}
	return &Library{gen: gen}
}

// Run generates one round of op
func (l *Library) Run(rng *rand.Rand, op Operation) (*Result, error) {
	var (
		input, output *dataset.Table
		err           error
	)

	switch op {
	case RowFilter:
		input, output = l.rowFilter(rng)
	case SelectColumns:
		input, output = l.selectColumns(rng)
	case RenameColumn:
		input, output = l.renameColumn(rng)
	case RowCount:
		input, output = l.rowCount(rng)
	case SplitColumn:
		input, output = l.splitColumn(rng)
	case GroupData:
		input, output = l.groupData(rng)
	case SortData:
		input, output = l.sortData(rng)
	case DropColumns:
		input, output = l.dropColumns(rng)
	case FillMissingValues:
		input, output, err = l.fillMissingValues(rng)
	case DropDuplicates:
		input, output = l.dropDuplicates(rng)
	case DropNA:
		input, output = l.dropNA(rng)
	case CalculateColumn:
		input, output = l.calculateColumn(rng)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidOperationID, int(op))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", op, err)
	}

	return newResult(op, input, output), nil
}

// coin returns true with probability one half
func coin(rng *rand.Rand) bool {
	return rng.Intn(2) == 0
}

// between returns a uniform integer in [lo, hi]
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func choose[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// numericSpec is an Integer or Float column chosen uniformly
func numericSpec(rng *rand.Rand) dataset.ColumnSpec {
	if coin(rng) {
		return dataset.ColumnSpec{Type: dataset.Integer}
	}
	return dataset.ColumnSpec{Type: dataset.Float}
}

// stringSpec is a string column with random split and name formatting
func stringSpec(rng *rand.Rand) dataset.ColumnSpec {
	return dataset.ColumnSpec{
		Type:     dataset.String,
		Split:    coin(rng),
		UseNames: coin(rng),
	}
}

// mixedSchema is one string column followed by one or two numeric columns
func mixedSchema(rng *rand.Rand) []dataset.ColumnSpec {
	schema := []dataset.ColumnSpec{stringSpec(rng)}
	for n := between(rng, 1, 2); n > 0; n-- {
		schema = append(schema, numericSpec(rng))
	}
	return schema
}

func isString(t dataset.SemanticType) bool {
	return t == dataset.String
}

func isInteger(t dataset.SemanticType) bool {
	return t == dataset.Integer
}

// mustPositions returns the positions of columns matching match and panics when
// fewer than atLeast exist
func mustPositions(t *dataset.Table, match func(dataset.SemanticType) bool, kind string, atLeast int) []int {
	positions := t.Positions(match)
	if len(positions) < atLeast {
		panic(fmt.Sprintf("operations: need at least %d %s column(s), table has %d", atLeast, kind, len(positions)))
	}
	return positions
}

// others returns every position in [0, n) except skip
func others(n, skip int) []int {
	positions := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != skip {
			positions = append(positions, i)
		}
	}
	return positions
}

// duplicateRows appends a random subset of one or two of the first base rows, rounds times
func duplicateRows(rng *rand.Rand, t *dataset.Table, rounds int, fresh bool) {
	base := t.RowCount()
	if base == 0 {
		return
	}
	subset := rng.Perm(base)[:between(rng, 1, min(2, base))]
	for i := 0; i < rounds; i++ {
		if fresh && i > 0 {
			subset = rng.Perm(base)[:between(rng, 1, min(2, base))]
		}
		t.AppendRows(subset)
	}
}

// rowKey encodes a row so that two rows share a key exactly when every cell is equal
func rowKey(cells []any) string {
	var b strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&b, "%T:%v\x1f", c, c)
	}
	return b.String()
}

// hasMissing reports whether any cell of the row is missing
func hasMissing(cells []any) bool {
	for _, c := range cells {
		if dataset.IsMissing(c) {
			return true
		}
	}
	return false
}

// toDecimal converts a numeric cell
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	default:
		return decimal.Zero, false
	}
}

// compareCells orders numeric cells numerically and anything else by its text.
// Missing cells sort first.
func compareCells(a, b any) int {
	switch {
	case dataset.IsMissing(a) && dataset.IsMissing(b):
		return 0
	case dataset.IsMissing(a):
		return -1
	case dataset.IsMissing(b):
		return 1
	}
	if x, ok := toDecimal(a); ok {
		if y, ok := toDecimal(b); ok {
			return x.Cmp(y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
