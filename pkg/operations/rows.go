/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rows.go
Description: Row-shaped operations: value counting, grouping with aggregates, sorting,
filling and dropping missing values and collapsing duplicate rows.
*/

package operations

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
)

// aggregate is a per-group reduction of group_data
type aggregate string

const (
	aggMax aggregate = "max"
	aggMin aggregate = "min"
	aggSum aggregate = "sum"
)

var aggregates = []aggregate{aggMax, aggMin, aggSum}

const (
	valueColumn = "value"
	countColumn = "count"
)

// rowCount duplicates some rows and counts the values of one column.
// Counts are descending, ties keep the order of first appearance.
func (l *Library) rowCount(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	schema := []dataset.ColumnSpec{stringSpec(rng), stringSpec(rng), stringSpec(rng)}
	input := l.gen.Generate(rng, schema)
	mustPositions(input, isString, "string", 3)
	duplicateRows(rng, input, between(rng, 1, 2), true)

	col := input.Columns[rng.Intn(input.Width())]

	type valueCount struct {
		value any
		count int64
	}
	var counts []valueCount
	index := make(map[any]int)
	for _, v := range col.Values {
		if i, ok := index[v]; ok {
			counts[i].count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, valueCount{value: v, count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	values := make([]any, len(counts))
	totals := make([]any, len(counts))
	for i, c := range counts {
		values[i] = c.value
		totals[i] = c.count
	}

	output := dataset.NewTable(
		&dataset.Column{Name: valueColumn, Type: col.Type, Values: values},
		&dataset.Column{Name: countColumn, Type: dataset.Integer, Values: totals},
	)
	return input, output
}

// groupData groups by every string column and aggregates each integer column.
// Groups are emitted in ascending key order.
func (l *Library) groupData(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	var schema []dataset.ColumnSpec
	for n := between(rng, 1, 2); n > 0; n-- {
		schema = append(schema, dataset.ColumnSpec{
			Type:            dataset.String,
			UseNames:        coin(rng),
			AllowDuplicates: true,
		})
	}
	for n := between(rng, 1, 2); n > 0; n-- {
		schema = append(schema, dataset.ColumnSpec{Type: dataset.Integer})
	}
	input := l.gen.Generate(rng, schema)

	keys := mustPositions(input, isString, "string", 1)
	measures := mustPositions(input, isInteger, "integer", 1)

	aggs := make([]aggregate, len(measures))
	for i := range aggs {
		aggs[i] = choose(rng, aggregates)
	}

	type group struct {
		key  []any
		rows []int
	}
	var groups []*group
	index := make(map[string]*group)
	for r := 0; r < input.RowCount(); r++ {
		key := make([]any, len(keys))
		for k, p := range keys {
			key[k] = input.Columns[p].Values[r]
		}
		id := rowKey(key)
		g, ok := index[id]
		if !ok {
			g = &group{key: key}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		for k := range keys {
			if c := compareCells(groups[i].key[k], groups[j].key[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	output := &dataset.Table{}
	for k, p := range keys {
		values := make([]any, len(groups))
		for i, g := range groups {
			values[i] = g.key[k]
		}
		src := input.Columns[p]
		output.Columns = append(output.Columns, &dataset.Column{Name: src.Name, Type: src.Type, Values: values})
	}
	for m, p := range measures {
		src := input.Columns[p]
		values := make([]any, len(groups))
		for i, g := range groups {
			values[i] = reduce(aggs[m], src.Values, g.rows)
		}
		output.Columns = append(output.Columns, &dataset.Column{
			Name:   fmt.Sprintf("%s_%s", src.Name, aggs[m]),
			Type:   dataset.Integer,
			Values: values,
		})
	}
	return input, output
}

// reduce aggregates the integer cells at rows. Missing cells are skipped and a
// group without values yields a missing cell.
func reduce(agg aggregate, values []any, rows []int) any {
	var (
		acc   int64
		found bool
	)
	for _, r := range rows {
		v, ok := values[r].(int64)
		if !ok {
			continue
		}
		switch {
		case !found:
			acc = v
		case agg == aggMax:
			acc = max(acc, v)
		case agg == aggMin:
			acc = min(acc, v)
		case agg == aggSum:
			acc += v
		}
		found = true
	}
	if !found {
		return nil
	}
	return acc
}

// sortData stable-sorts rows by the numeric column, ascending or descending
func (l *Library) sortData(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	var schema []dataset.ColumnSpec
	for n := between(rng, 1, 2); n > 0; n-- {
		schema = append(schema, stringSpec(rng))
	}
	schema = append(schema, numericSpec(rng))
	input := l.gen.Generate(rng, schema)

	values := input.Columns[mustPositions(input, dataset.SemanticType.IsNumeric, "numeric", 1)[0]].Values
	descending := coin(rng)

	order := make([]int, input.RowCount())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		c := compareCells(values[order[i]], values[order[j]])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return input, input.SelectRows(order)
}

// fillMissingValues blanks some cells of one column and fills them with the type's constant
func (l *Library) fillMissingValues(rng *rand.Rand) (*dataset.Table, *dataset.Table, error) {
	input := l.gen.Generate(rng, mixedSchema(rng))
	c := rng.Intn(input.Width())
	dataset.InjectMissing(rng, input.Columns[c].Values)

	fill, err := dataset.FillValue(rng, input.Columns[c].Type)
	if err != nil {
		return nil, nil, err
	}

	output := input.Clone()
	values := output.Columns[c].Values
	for i, v := range values {
		if dataset.IsMissing(v) {
			values[i] = fill
		}
	}
	return input, output, nil
}

// dropDuplicates appends one or two rows twice and keeps the first occurrence of every row
func (l *Library) dropDuplicates(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	input := l.gen.Generate(rng, mixedSchema(rng))
	duplicateRows(rng, input, 2, false)

	seen := make(map[string]bool)
	var keep []int
	for r := 0; r < input.RowCount(); r++ {
		key := rowKey(input.Row(r))
		if !seen[key] {
			seen[key] = true
			keep = append(keep, r)
		}
	}
	return input, input.SelectRows(keep)
}

// dropNA blanks some cells of one column and removes every row holding a missing cell
func (l *Library) dropNA(rng *rand.Rand) (*dataset.Table, *dataset.Table) {
	input := l.gen.Generate(rng, mixedSchema(rng))
	dataset.InjectMissing(rng, input.Columns[rng.Intn(input.Width())].Values)

	var keep []int
	for r := 0; r < input.RowCount(); r++ {
		if !hasMissing(input.Row(r)) {
			keep = append(keep, r)
		}
	}
	return input, input.SelectRows(keep)
}
