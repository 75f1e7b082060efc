/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the QueryCollect commands. Provides configuration
loading, logging setup and construction of the generation pipeline used by every
command implementation.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/detective-solutions/QueryCollect/pkg/config"
	"github.com/detective-solutions/QueryCollect/pkg/corpus"
	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// App bundles the collaborators the commands share
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Corpus    *corpus.Corpus
	Generator *dataset.Generator
	Registry  *operations.Registry
}

// LoadConfig loads configuration from files, the environment and bound flags
func LoadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), viper.GetString("config"), viper.GetString("env_file"))
}

// SetupLogging creates the application logger
func SetupLogging(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// NewApp loads configuration, logging and the name corpus and wires the generator
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cfg)
	if err != nil {
		return nil, err
	}

	names, err := corpus.NewLoader(logger.GetLogger()).Load(ctx, cfg.Corpus.Source, corpus.Format(cfg.Corpus.Format))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to load name corpus: %w", err)
	}

	gen := dataset.NewGenerator(
		dataset.NewNamer(nil),
		dataset.NewSynthesizer(nil, names),
		dataset.WithRowCount(cfg.Generator.Rows),
		dataset.WithLogger(logger.GetLogger()),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Corpus:    names,
		Generator: gen,
		Registry:  operations.NewRegistry(gen, logger.GetLogger()),
	}, nil
}

// Close releases the logger
func (a *App) Close() {
	a.Logger.Close()
}

// resolveOperation accepts an operation id or name
func resolveOperation(raw string) (operations.Operation, error) {
	if op, err := operations.FromName(raw); err == nil {
		return op, nil
	}
	id, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", operations.ErrInvalidOperationID, raw)
	}
	return operations.FromID(id)
}
