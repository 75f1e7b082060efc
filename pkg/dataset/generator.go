/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generator.go
Description: Schema-driven table generator. Asks the namer for every column name and the
synthesizer for every column's values, preserving schema order.
*/

package dataset

import (
	"math/rand"

	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Generator builds tables from column schemas
type Generator struct {
	namer  *Namer
	synth  *Synthesizer
	rows   int
	logger logrus.FieldLogger
}

// Option configures a Generator
type Option func(*Generator)

// WithRowCount overrides the number of rows of generated tables.
// Operations that inject duplicate rows assume the default.
func WithRowCount(rows int) Option {
	return func(g *Generator) {
		if rows > 0 {
			g.rows = rows
		}
	}
}

// WithLogger attaches a logger for generation tracing
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator from a namer and a synthesizer
func NewGenerator(namer *Namer, synth *Synthesizer, opts ...Option) *Generator {
	if namer == nil || synth == nil {
		panic("dataset: generator needs a namer and a synthesizer")
	}

	g := &Generator{
		namer:  namer,
		synth:  synth,
		rows:   DefaultRowCount,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rows returns the row count of generated tables
func (g *Generator) Rows() int {
	return g.rows
}

// Namer exposes the column namer so operations can mint fresh names
func (g *Generator) Namer() *Namer {
	return g.namer
}

// Synthesizer exposes the value synthesizer
func (g *Generator) Synthesizer() *Synthesizer {
	return g.synth
}

// Generate builds one table following schema. Column names are not deduplicated.
func (g *Generator) Generate(rng *rand.Rand, schema []ColumnSpec) *Table {
	columns := make([]*Column, 0, len(schema))
	for _, spec := range schema {
		name := g.namer.Generate(rng, spec.Type, spec.UseNames)
		columns = append(columns, &Column{
			Name:   name,
			Type:   spec.Type,
			Values: g.synth.Synthesize(rng, g.rows, spec),
		})
	}

	g.logger.WithFields(logrus.Fields{
		"columns": len(columns),
		"rows":    g.rows,
	}).Debug("Generated table")

	return NewTable(columns...)
}
