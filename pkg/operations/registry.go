/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Operation registry. Lists the available operations and dispatches generation
requests by id. Callers log the rounds they receive; the registry only logs failures.
*/

package operations

import (
	"math/rand"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Entry describes one registered operation
type Entry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry maps operation ids to the library
type Registry struct {
	library *Library
	logger  logrus.FieldLogger
}

// NewRegistry creates a registry generating tables with gen. A nil logger discards output.
func NewRegistry(gen *dataset.Generator, logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		library: NewLibrary(gen),
		logger:  logger,
	}
}

// List returns every operation in id order
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, Count)
	for _, op := range All() {
		entries = append(entries, Entry{
			ID:          int(op),
			Name:        op.String(),
			Description: op.Description(),
		})
	}
	return entries
}

// Dispatch generates one round of the operation with the given id
func (r *Registry) Dispatch(rng *rand.Rand, id int) (*Result, error) {
	op, err := FromID(id)
	if err != nil {
		r.logger.WithField("operation_id", id).Warn("Rejected operation id")
		return nil, err
	}
	return r.Run(rng, op)
}

// Run generates one round of op
func (r *Registry) Run(rng *rand.Rand, op Operation) (*Result, error) {
	result, err := r.library.Run(rng, op)
	if err != nil {
		r.logger.WithError(err).WithField("operation", op.String()).Error("Operation generation failed")
		return nil, err
	}
	return result, nil
}

// Random generates one round of a uniformly chosen operation
func (r *Registry) Random(rng *rand.Rand) (*Result, error) {
	return r.Run(rng, Operation(rng.Intn(Count)))
}
