/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for random table synthesis in QueryCollect. Defines the semantic
column types, the per-column specification consumed by the table generator and the
sentinel errors shared by the dataset package.
*/

package dataset

import (
	"errors"
	"fmt"
)

// DefaultRowCount is the number of rows every generated table carries unless
// the generator is configured otherwise. Operations that inject duplicate rows
// are tuned for this size.
const DefaultRowCount = 5

// ErrUnsupportedFillType is returned when a semantic type has no missing-value fill set.
var ErrUnsupportedFillType = errors.New("dataset: unsupported fill type")

// SemanticType is the kind of values a column holds
type SemanticType int

const (
	String SemanticType = iota
	Integer
	Float
)

// String returns the lower-case name of the semantic type
func (t SemanticType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("SemanticType(%d)", int(t))
	}
}

// IsNumeric reports whether the type is Integer or Float
func (t SemanticType) IsNumeric() bool {
	return t == Integer || t == Float
}

// Valid reports whether t is one of the declared semantic types
func (t SemanticType) Valid() bool {
	return t == String || t == Integer || t == Float
}

// ColumnSpec declares what the generator must produce for one column
type ColumnSpec struct {
	Type            SemanticType `json:"type"`             // Semantic type of the column values
	Split           bool         `json:"split"`            // Strings built from punctuation-joined segments
	UseNames        bool         `json:"use_names"`        // Strings built from the name corpus
	AllowDuplicates bool         `json:"allow_duplicates"` // Force at least one repeated string value
}
