/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for configuration loading, precedence and validation.
*/

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/detective-solutions/QueryCollect/pkg/config"
	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// TestDefaults tests the configuration with nothing set
func TestDefaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "", "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "querycollect.db", cfg.Database.Path)
	assert.Empty(t, cfg.Corpus.Source)
	assert.Equal(t, 5, cfg.Generator.Rows)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "custom", cfg.Log.Format)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LogLevelInfo, lc.Level)
	assert.Empty(t, lc.OutputDir)
}

// TestConfigFile tests values read from a YAML file
func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querycollect.yaml")
	content := `
server:
  address: "127.0.0.1:9000"
generator:
  rows: 8
  seed: 42
corpus:
  source: names.txt
  format: txt
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(viper.New(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 8, cfg.Generator.Rows)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, "names.txt", cfg.Corpus.Source)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

// TestEnvironment tests environment overrides and database aliases
func TestEnvironment(t *testing.T) {
	t.Setenv("QUERYCOLLECT_GENERATOR_ROWS", "11")
	t.Setenv("QUERYCOLLECT_SERVER_ADDRESS", ":9999")
	t.Setenv("DATABASE_URI", "sqlite:///guesses.sqlite")

	cfg, err := config.Load(viper.New(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Generator.Rows)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "sqlite:///guesses.sqlite", cfg.Database.Path)

	t.Setenv("QUERYCOLLECT_DATABASE_PATH", "primary.db")
	cfg, err = config.Load(viper.New(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "primary.db", cfg.Database.Path)
}

// TestEnvFile tests loading a .env file
func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QUERYCOLLECT_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUERYCOLLECT_LOG_LEVEL") })

	cfg, err := config.Load(viper.New(), "", path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = config.Load(viper.New(), "", filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)
}

// TestValidation tests that every problem is reported
func TestValidation(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Address: " "},
		Database:  config.DatabaseConfig{Path: "mysql://not a dsn"},
		Corpus:    config.CorpusConfig{Format: "xlsx"},
		Generator: config.GeneratorConfig{Rows: 0},
		Log:       config.LogConfig{Level: "loud", Format: "text"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Len(t, multierr.Errors(unwrapJoined(err)), 5)

	v := viper.New()
	v.Set("generator.rows", -1)
	_, err = config.Load(v, "", "")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// TestNewRand tests seeded and clock-seeded streams
func TestNewRand(t *testing.T) {
	a := config.GeneratorConfig{Seed: 7}.NewRand()
	b := config.GeneratorConfig{Seed: 7}.NewRand()
	assert.Equal(t, a.Int63(), b.Int63())
	assert.NotNil(t, config.GeneratorConfig{}.NewRand())
}

// unwrapJoined returns the multierr value wrapped next to the sentinel
func unwrapJoined(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if e != config.ErrInvalidConfig {
				return e
			}
		}
	}
	return err
}
