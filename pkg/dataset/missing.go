/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: missing.go
Description: Missing-value helpers. Injects missing cells into generated columns after the
fact and provides the type-appropriate constants used to fill them again.
*/

package dataset

import (
	"fmt"
	"math/rand"
	"sort"
)

const maxMissing = 3

var stringFillValues = []string{"#", "no_value"}

// InjectMissing sets between 1 and 3 distinct random cells of values to nil.
// Returns the affected positions in ascending order.
func InjectMissing(rng *rand.Rand, values []any) []int {
	if len(values) == 0 {
		return nil
	}

	k := 1 + rng.Intn(maxMissing)
	if k > len(values) {
		k = len(values)
	}

	positions := rng.Perm(len(values))[:k]
	sort.Ints(positions)
	for _, p := range positions {
		values[p] = nil
	}
	return positions
}

// FillValue returns the constant used to replace missing cells of type t:
// 0.0 for Float, 0 for Integer and one of "#" or "no_value" for String.
func FillValue(rng *rand.Rand, t SemanticType) (any, error) {
	switch t {
	case Float:
		return 0.0, nil
	case Integer:
		return int64(0), nil
	case String:
		return pick(rng, stringFillValues), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFillType, t)
	}
}

// IsMissing reports whether a cell holds no value
func IsMissing(v any) bool {
	return v == nil
}
