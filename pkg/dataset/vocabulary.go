/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: vocabulary.go
Description: Immutable word lists used to name and fill generated columns. The vocabulary
is injected into the namer and synthesizer at construction so tests can run against
controlled dictionaries.
*/

package dataset

import "fmt"

// Vocabulary holds the dictionaries used for column names and string values.
// A Vocabulary must not be modified after it is handed to a Namer or Synthesizer.
type Vocabulary struct {
	Words       []string                  // General column words
	Subjects    []string                  // First half of a name-style column name
	Roles       []string                  // Second half of a name-style column name
	Digits      []string                  // Filler tokens mixed into general words
	Tags        map[SemanticType][]string // Per-type suffix tags, each set includes ""
	Letters     string                    // Alphabet for random string segments
	Punctuation string                    // Separators for split strings
}

// DefaultVocabulary returns the stock dictionaries
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Words: []string{
			"Project", "Address", "Plant", "Screen", "Package",
			"Response", "Tech", "Technology", "Preview", "Connection",
		},
		Subjects: []string{
			"Project", "Address", "Plant", "Screen", "Package",
			"Response", "Tech", "Technology", "Preview", "Connection",
		},
		Roles: []string{
			"Name", "Customer", "Contact", "Consumer", "Manager", "Responsible", "Prospect",
		},
		Digits: []string{"", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Tags: map[SemanticType][]string{
			String:  {"", "Txt"},
			Integer: {"", "Lat", "Lon", "Size", "HS", "Id", "Total", "Dim", "Distance", "Duration"},
			Float:   {"", "Pct", "Weight", "Kg", "Ton", "Price", "Brutto", "Netto", "Estimate"},
		},
		Letters:     "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		Punctuation: "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
	}
}

// tags returns the suffix tags for t, always containing the empty tag
func (v *Vocabulary) tags(t SemanticType) []string {
	if tags := v.Tags[t]; len(tags) > 0 {
		return tags
	}
	return []string{""}
}

// Validate checks that every dictionary the generators draw from is populated
func (v *Vocabulary) Validate() error {
	if len(v.Words)+len(v.Digits) == 0 {
		return fmt.Errorf("dataset: vocabulary has no general words")
	}
	if len(v.Subjects) == 0 || len(v.Roles) == 0 {
		return fmt.Errorf("dataset: vocabulary needs subject and role words")
	}
	if v.Letters == "" {
		return fmt.Errorf("dataset: vocabulary has no letters")
	}
	if v.Punctuation == "" {
		return fmt.Errorf("dataset: vocabulary has no punctuation")
	}
	return nil
}
