/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: namer_test.go
Description: Tests for column name generation. Covers the leading digit rule over many
seeds, tag suffixes, name-style columns and the bounded retry fallback.
*/

package dataset_test

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []dataset.SemanticType{dataset.String, dataset.Integer, dataset.Float}

// TestNamerNeverEmptyNeverDigit checks names over many seeds and every type
func TestNamerNeverEmptyNeverDigit(t *testing.T) {
	namer := dataset.NewNamer(nil)

	for seed := int64(0); seed < 500; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for _, typ := range allTypes {
			for _, useNames := range []bool{false, true} {
				name := namer.Generate(rng, typ, useNames)
				require.NotEmpty(t, name, "seed %d type %s", seed, typ)
				assert.False(t, unicode.IsDigit([]rune(name)[0]), "name %q starts with a digit", name)
			}
		}
	}
}

// TestNamerNameStyle checks that name-style columns combine a subject and a role
func TestNamerNameStyle(t *testing.T) {
	vocab := dataset.DefaultVocabulary()
	namer := dataset.NewNamer(vocab)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		name := strings.ToLower(namer.Generate(rng, dataset.String, true))

		matched := false
		for _, subject := range vocab.Subjects {
			for _, role := range vocab.Roles {
				if strings.HasPrefix(name, strings.ToLower(subject+role)) {
					matched = true
				}
			}
		}
		assert.True(t, matched, "name %q is not subject+role", name)
	}
}

// TestNamerTagsBelongToType checks that the suffix comes from the requested type's tags
func TestNamerTagsBelongToType(t *testing.T) {
	vocab := &dataset.Vocabulary{
		Words:    []string{"Word"},
		Subjects: []string{"Project"},
		Roles:    []string{"Name"},
		Tags: map[dataset.SemanticType][]string{
			dataset.Float: {"", "Pct"},
		},
		Letters:     "ab",
		Punctuation: "-",
	}
	namer := dataset.NewNamer(vocab)
	rng := rand.New(rand.NewSource(3))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		name := strings.ToLower(namer.Generate(rng, dataset.Float, false))
		require.True(t, name == "word" || name == "wordpct", "unexpected name %q", name)
		seen[name] = true
	}
	assert.Len(t, seen, 2)
}

// TestNamerFallback checks the deterministic fallback when every candidate cleans to empty
func TestNamerFallback(t *testing.T) {
	digitsOnly := func(tags []string) *dataset.Vocabulary {
		return &dataset.Vocabulary{
			Words:       []string{"42"},
			Subjects:    []string{"Project"},
			Roles:       []string{"Name"},
			Tags:        map[dataset.SemanticType][]string{dataset.Integer: tags},
			Letters:     "ab",
			Punctuation: "-",
		}
	}

	rng := rand.New(rand.NewSource(1))

	namer := dataset.NewNamer(digitsOnly([]string{""}))
	assert.Equal(t, "column", namer.Generate(rng, dataset.Integer, false))

	namer = dataset.NewNamer(digitsOnly(nil))
	assert.Equal(t, "column", namer.Generate(rng, dataset.Integer, false))
}

// TestNamerRejectsEmptyVocabulary checks construction fails fast
func TestNamerRejectsEmptyVocabulary(t *testing.T) {
	assert.Panics(t, func() {
		dataset.NewNamer(&dataset.Vocabulary{})
	})
}

// TestNamerDeterministic checks that equal seeds give equal names
func TestNamerDeterministic(t *testing.T) {
	namer := dataset.NewNamer(nil)
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))

	for i := 0; i < 50; i++ {
		assert.Equal(t, namer.Generate(a, dataset.Integer, false), namer.Generate(b, dataset.Integer, false))
	}
}
