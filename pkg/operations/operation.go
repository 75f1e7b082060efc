/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: operation.go
Description: The twelve tabular operations a quiz round can be built from. Each operation
is an enumerated constant with a stable id, a display name and a short description shown
by the CLI and the API.
*/

package operations

import (
	"errors"
	"fmt"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
)

// ErrInvalidOperationID is returned when an operation id is outside 0-11
var ErrInvalidOperationID = errors.New("operations: invalid operation id")

// Operation identifies one of the table transformations
type Operation int

const (
	RowFilter Operation = iota
	SelectColumns
	RenameColumn
	RowCount
	SplitColumn
	GroupData
	SortData
	DropColumns
	FillMissingValues
	DropDuplicates
	DropNA
	CalculateColumn

	operationCount
)

var operationNames = [operationCount]string{
	RowFilter:         "row_filter",
	SelectColumns:     "select_columns",
	RenameColumn:      "rename_column",
	RowCount:          "row_count",
	SplitColumn:       "split_column",
	GroupData:         "group_data",
	SortData:          "sort_data",
	DropColumns:       "drop_columns",
	FillMissingValues: "fill_missing_values",
	DropDuplicates:    "drop_duplicates",
	DropNA:            "drop_na",
	CalculateColumn:   "calculate_column",
}

var operationDescriptions = [operationCount]string{
	RowFilter:         "Rename one column to a fresh integer-style name",
	SelectColumns:     "Project the table onto one or two columns",
	RenameColumn:      "Rename one of two numeric columns",
	RowCount:          "Count how often each value of one column occurs",
	SplitColumn:       "Split a punctuation-joined column into one column per segment",
	GroupData:         "Group by the string columns and aggregate the integer columns",
	SortData:          "Sort rows by the numeric column",
	DropColumns:       "Drop one column",
	FillMissingValues: "Replace missing values with a type-appropriate constant",
	DropDuplicates:    "Remove exact duplicate rows",
	DropNA:            "Remove every row holding a missing value",
	CalculateColumn:   "Derive a new column from two existing columns",
}

// Count is the number of operations
const Count = int(operationCount)

// String returns the display name of the operation
func (o Operation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operation(%d)", int(o))
	}
	return operationNames[o]
}

// Description returns a one-line description of the operation
func (o Operation) Description() string {
	if !o.Valid() {
		return ""
	}
	return operationDescriptions[o]
}

// Valid reports whether o is a declared operation
func (o Operation) Valid() bool {
	return o >= 0 && o < operationCount
}

// FromID converts an external id into an operation
func FromID(id int) (Operation, error) {
	op := Operation(id)
	if !op.Valid() {
		return 0, fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidOperationID, id, Count-1)
	}
	return op, nil
}

// FromName looks an operation up by its display name
func FromName(name string) (Operation, error) {
	for i, n := range operationNames {
		if n == name {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperationID, name)
}

// All returns every operation in id order
func All() []Operation {
	ops := make([]Operation, Count)
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}

// Result is one generated quiz round: an input table and the table the operation derived from it
type Result struct {
	Operation   Operation        `json:"-"`
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Input       []dataset.Record `json:"input"`
	Output      []dataset.Record `json:"output"`
	InputTable  *dataset.Table   `json:"-"`
	OutputTable *dataset.Table   `json:"-"`
}

func newResult(op Operation, input, output *dataset.Table) *Result {
	return &Result{
		Operation:   op,
		ID:          int(op),
		Name:        op.String(),
		Input:       input.Records(),
		Output:      output.Records(),
		InputTable:  input,
		OutputTable: output,
	}
}
