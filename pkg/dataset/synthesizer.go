/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: synthesizer.go
Description: Column value synthesis for QueryCollect. Produces fixed-size sequences of
integers, rounded normal floats, random letter strings and name-derived strings, with
optional punctuation-split formatting and forced duplicate values.
*/

package dataset

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	integerUpperBound = 100 // integers are drawn from [0, integerUpperBound)
	floatPlaces       = 2   // floats are rounded to this many decimal places
	minSegmentLength  = 2
	maxSegmentLength  = 4
)

// NameSource supplies the raw name strings used for name-derived columns
type NameSource interface {
	Names() []string
}

// Synthesizer generates column values
type Synthesizer struct {
	vocab     *Vocabulary
	names     []string
	nameSeps  []rune // punctuation that never occurs inside a corpus name
	punctSeps []rune
}

// NewSynthesizer creates a synthesizer drawing names from source.
// A nil vocab selects DefaultVocabulary. Panics when source has no names or the
// vocabulary is unusable.
func NewSynthesizer(vocab *Vocabulary, source NameSource) *Synthesizer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if err := vocab.Validate(); err != nil {
		panic(err)
	}
	if source == nil || len(source.Names()) == 0 {
		panic("dataset: synthesizer needs at least one name")
	}

	names := source.Names()
	punct := []rune(vocab.Punctuation)

	// Separators for name columns must not appear inside the names themselves,
	// otherwise a split column cannot be taken apart again.
	var nameSeps []rune
	for _, r := range punct {
		if !containsRune(names, r) {
			nameSeps = append(nameSeps, r)
		}
	}
	if len(nameSeps) == 0 {
		nameSeps = punct
	}

	return &Synthesizer{
		vocab:     vocab,
		names:     names,
		nameSeps:  nameSeps,
		punctSeps: punct,
	}
}

// Synthesize returns size values for a column described by spec.
// Integer cells are int64, Float cells float64 and String cells string.
func (s *Synthesizer) Synthesize(rng *rand.Rand, size int, spec ColumnSpec) []any {
	switch spec.Type {
	case Integer:
		return s.integers(rng, size)
	case Float:
		return s.floats(rng, size)
	case String:
		var values []string
		if spec.UseNames {
			values = s.nameStrings(rng, size, spec.Split)
		} else {
			values = s.randomStrings(rng, size, spec.Split)
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		if spec.AllowDuplicates {
			injectDuplicates(rng, cells)
		}
		return cells
	default:
		panic(fmt.Sprintf("dataset: cannot synthesize %s column", spec.Type))
	}
}

// IsSeparator reports whether r is one of the punctuation characters split strings are joined with
func (s *Synthesizer) IsSeparator(r rune) bool {
	return strings.ContainsRune(s.vocab.Punctuation, r)
}

// DetectSeparator returns the punctuation character a split value was joined with.
// Characters that may occur inside corpus names are only considered when the
// value holds no other punctuation.
func (s *Synthesizer) DetectSeparator(value string) (rune, bool) {
	var first rune
	found := false
	for _, r := range value {
		if !s.IsSeparator(r) {
			continue
		}
		if strings.ContainsRune(string(s.nameSeps), r) {
			return r, true
		}
		if !found {
			first, found = r, true
		}
	}
	return first, found
}

func (s *Synthesizer) integers(rng *rand.Rand, size int) []any {
	cells := make([]any, size)
	for i := range cells {
		cells[i] = int64(rng.Intn(integerUpperBound))
	}
	return cells
}

func (s *Synthesizer) floats(rng *rand.Rand, size int) []any {
	cells := make([]any, size)
	for i := range cells {
		cells[i] = RoundFloat(rng.NormFloat64(), floatPlaces)
	}
	return cells
}

// randomStrings builds values of one letter segment, or two segments joined by a
// single punctuation character shared by the whole column
func (s *Synthesizer) randomStrings(rng *rand.Rand, size int, split bool) []string {
	sections := 1
	if split {
		sections = 2
	}
	sep := string(pick(rng, s.punctSeps))

	values := make([]string, size)
	parts := make([]string, sections)
	for i := range values {
		for p := range parts {
			parts[p] = s.segment(rng)
		}
		values[i] = strings.Join(parts, sep)
	}
	return values
}

// nameStrings builds values of 1-3 space-joined names, or 2-3 names joined by a
// single punctuation character shared by the whole column
func (s *Synthesizer) nameStrings(rng *rand.Rand, size int, split bool) []string {
	sep := " "
	if split {
		sep = string(pick(rng, s.nameSeps))
	}

	values := make([]string, size)
	for i := range values {
		count := 1 + rng.Intn(3)
		if split {
			count = 2 + rng.Intn(2)
		}
		parts := make([]string, count)
		for p := range parts {
			parts[p] = pick(rng, s.names)
		}
		values[i] = strings.Join(parts, sep)
	}
	return values
}

func (s *Synthesizer) segment(rng *rand.Rand) string {
	n := minSegmentLength + rng.Intn(maxSegmentLength-minSegmentLength+1)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(s.vocab.Letters[rng.Intn(len(s.vocab.Letters))])
	}
	return b.String()
}

// injectDuplicates copies the value at one random index over 1 or 2 other indices
func injectDuplicates(rng *rand.Rand, cells []any) {
	if len(cells) < 2 {
		return
	}

	seed := rng.Intn(len(cells))
	targets := make([]int, 0, len(cells)-1)
	for _, idx := range rng.Perm(len(cells)) {
		if idx != seed {
			targets = append(targets, idx)
		}
	}

	k := 1 + rng.Intn(2)
	if k > len(targets) {
		k = len(targets)
	}
	for _, idx := range targets[:k] {
		cells[idx] = cells[seed]
	}
}

// RoundFloat rounds v half away from zero to the given number of decimal places
func RoundFloat(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func containsRune(values []string, r rune) bool {
	for _, v := range values {
		if strings.ContainsRune(v, r) {
			return true
		}
	}
	return false
}
