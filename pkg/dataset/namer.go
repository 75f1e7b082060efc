/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: namer.go
Description: Column name generation for QueryCollect. Builds human-plausible column names
from the vocabulary with random word styles, separators and type tags, and guarantees a
non-empty name that never starts with a digit.
*/

package dataset

import (
	"math/rand"
	"strings"
	"unicode"
)

// maxNameAttempts bounds regeneration of names that end up empty after cleaning
const maxNameAttempts = 16

// fallbackColumnName is used when a type has no non-empty tag to fall back on
const fallbackColumnName = "column"

// wordStyle is the casing applied to a single word of a column name
type wordStyle int

const (
	styleIdentity wordStyle = iota
	styleLower
	styleUpper
)

var separators = []string{"_", ""}

// Namer generates column names from a vocabulary
type Namer struct {
	vocab *Vocabulary
	pool  []string // general words and digit fillers
}

// NewNamer creates a namer over vocab. A nil vocab selects DefaultVocabulary.
// Panics when the vocabulary cannot produce names.
func NewNamer(vocab *Vocabulary) *Namer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if err := vocab.Validate(); err != nil {
		panic(err)
	}

	pool := make([]string, 0, len(vocab.Words)+len(vocab.Digits))
	pool = append(pool, vocab.Words...)
	pool = append(pool, vocab.Digits...)

	return &Namer{vocab: vocab, pool: pool}
}

// Generate returns a column name for a column of type t.
// useNames selects the subject+role naming used for name-derived string columns.
// The result is never empty and never starts with a digit.
func (n *Namer) Generate(rng *rand.Rand, t SemanticType, useNames bool) string {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if name := trimLeadingDigits(n.candidate(rng, t, useNames)); name != "" {
			return name
		}
	}
	return n.fallback(t)
}

// candidate builds one raw name before cleaning
func (n *Namer) candidate(rng *rand.Rand, t SemanticType, useNames bool) string {
	sep := pick(rng, separators)

	var words []string
	if useNames {
		words = []string{pick(rng, n.vocab.Subjects) + pick(rng, n.vocab.Roles)}
	} else {
		words = []string{pick(rng, n.pool)}
	}

	styled := make([]string, len(words))
	for i, word := range words {
		styled[i] = applyStyle(word, wordStyle(rng.Intn(3)))
	}

	return strings.Join(styled, sep) + pick(rng, n.vocab.tags(t))
}

// fallback returns the deterministic name used when every attempt came out empty
func (n *Namer) fallback(t SemanticType) string {
	for _, tag := range n.vocab.tags(t) {
		if name := trimLeadingDigits(tag); name != "" {
			return name
		}
	}
	return fallbackColumnName
}

func applyStyle(word string, style wordStyle) string {
	switch style {
	case styleLower:
		return strings.ToLower(word)
	case styleUpper:
		return strings.ToUpper(word)
	default:
		return word
	}
}

// trimLeadingDigits removes digit characters from the front of name
func trimLeadingDigits(name string) string {
	return strings.TrimLeftFunc(name, unicode.IsDigit)
}

// pick returns a uniformly chosen element of items
func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
