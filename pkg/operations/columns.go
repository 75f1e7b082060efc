/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: columns.go
Description: Column-shaped operations: renaming, projection, dropping, splitting a
punctuation-joined column and deriving a calculated column.
*/

package operations

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/shopspring/decimal"
)

// arithmetic is a binary operator of calculate_column
type arithmetic string

const (
	opAdd      arithmetic = "add"
	opSubtract arithmetic = "subtract"
	opMultiply arithmetic = "multiply"
	opDivide   arithmetic = "divide"
)

var arithmetics = []arithmetic{opAdd, opSubtract, opMultiply, opDivide}

var combinationSeparators = []string{"_", "-", " "}

const (
	combinationColumn = "combination"
	calculatedPlaces  = 4 // decimal places kept by float results
)

// rowFilter renames one column to a freshly generated integer-style name
func (l *Library) rowFilter(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	schema := []dataset.ColumnSpec{stringSpec(rng), numericSpec(rng), numericSpec(rng)}
	input := l.gen.Generate(rng, schema)

	output := input.Clone()
	col := output.Columns[rng.Intn(output.Width())]
	col.Name = l.gen.Namer().Generate(rng, dataset.Integer, false)
	return input, output
}

// selectColumns projects onto one or two distinct columns in draw order
func (l *Library) selectColumns(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	schema := []dataset.ColumnSpec{numericSpec(rng), stringSpec(rng), numericSpec(rng)}
	input := l.gen.Generate(rng, schema)

	picked := rng.Perm(input.Width())[:between(rng, 1, 2)]
	return input, input.Project(picked...)
}

// renameColumn renames one of two numeric columns in place
func (l *Library) renameColumn(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	schema := []dataset.ColumnSpec{numericSpec(rng), numericSpec(rng)}
	input := l.gen.Generate(rng, schema)
	mustPositions(input, dataset.SemanticType.IsNumeric, "numeric", 2)

	output := input.Clone()
	col := output.Columns[rng.Intn(output.Width())]
	col.Name = l.gen.Namer().Generate(rng, col.Type, false)
	return input, output
}

// dropColumns removes one random column
func (l *Library) dropColumns(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	input := l.gen.Generate(rng, mixedSchema(rng))
	drop := rng.Intn(input.Width())
	return input, input.Project(others(input.Width(), drop)...)
}

// splitColumn splits the string column on its separator into {name}_{i} columns.
// Rows with fewer segments than the longest row get missing cells.
func (l *Library) splitColumn(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	schema := []dataset.ColumnSpec{{Type: dataset.String, Split: true, UseNames: coin(rng)}}
	input := l.gen.Generate(rng, schema)
	col := input.Columns[mustPositions(input, isString, "string", 1)[0]]

	first, _ := col.Values[0].(string)
	sep, ok := l.gen.Synthesizer().DetectSeparator(first)
	if !ok {
		panic(fmt.Sprintf("operations: split column value %q holds no separator", first))
	}

	segments := make([][]string, len(col.Values))
	width := 0
	for i, v := range col.Values {
		if s, ok := v.(string); ok {
			segments[i] = strings.Split(s, string(sep))
			width = max(width, len(segments[i]))
		}
	}

	output := input.Clone()
	for seg := 0; seg < width; seg++ {
		values := make([]any, len(segments))
		for row, parts := range segments {
			if seg < len(parts) {
				values[row] = parts[seg]
			}
		}
		output.Columns = append(output.Columns, &dataset.Column{
			Name:   fmt.Sprintf("%s_%d", col.Name, seg),
			Type:   dataset.String,
			Values: values,
		})
	}
	return input, output
}

// calculateColumn combines two string columns or applies arithmetic to two numeric columns
func (l *Library) calculateColumn(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	n := between(rng, 2, 3)
	strs := coin(rng)

	schema := make([]dataset.ColumnSpec, n)
	for i := range schema {
		if strs {
			schema[i] = dataset.ColumnSpec{Type: dataset.String, UseNames: coin(rng)}
		} else {
			schema[i] = numericSpec(rng)
		}
	}
	input := l.gen.Generate(rng, schema)

	output := input.Project(rng.Perm(n)[:2]...)
	a, b := output.Columns[0], output.Columns[1]

	if strs {
		sep := choose(rng, combinationSeparators)
		output.Columns = append(output.Columns, &dataset.Column{
			Name:   combinationColumn,
			Type:   dataset.String,
			Values: combine(a.Values, b.Values, sep),
		})
		return input, output
	}

	op := choose(rng, arithmetics)
	resultType := dataset.Float
	if a.Type == dataset.Integer && b.Type == dataset.Integer && op != opDivide {
		resultType = dataset.Integer
	}

	values := make([]any, len(a.Values))
	for i := range values {
		values[i] = calculate(op, a.Values[i], b.Values[i], resultType)
	}
	output.Columns = append(output.Columns, &dataset.Column{
		Name:   fmt.Sprintf("%s_%s", a.Name, op),
		Type:   resultType,
		Values: values,
	})
	return input, output
}

// combine joins two string columns cell by cell
func combine(a, b []any, sep string) []any {
	values := make([]any, len(a))
	for i := range values {
		x, okx := a[i].(string)
		y, oky := b[i].(string)
		if okx && oky {
			values[i] = x + sep + y
		}
	}
	return values
}

// calculate applies op to two numeric cells. Missing operands and division by
// zero give a missing result.
func calculate(op arithmetic, a, b any, resultType dataset.SemanticType) any {
	x, okx := toDecimal(a)
	y, oky := toDecimal(b)
	if !okx || !oky {
		return nil
	}

	var r decimal.Decimal
	switch op {
	case opAdd:
		r = x.Add(y)
	case opSubtract:
		r = x.Sub(y)
	case opMultiply:
		r = x.Mul(y)
	case opDivide:
		if y.IsZero() {
			return nil
		}
		r = x.DivRound(y, calculatedPlaces)
	default:
		panic(fmt.Sprintf("operations: unknown arithmetic %q", op))
	}

	if resultType == dataset.Integer {
		return r.IntPart()
	}
	return r.Round(calculatedPlaces).InexactFloat64()
}
