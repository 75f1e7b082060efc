/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration for QueryCollect. Merges defaults, an optional config file,
an optional .env file, QUERYCOLLECT_* environment variables and bound command-line
flags into a validated Config.
*/

package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/corpus"
	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/multierr"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "QUERYCOLLECT"

// DefaultEnvFile is read when present and no other env file is named
const DefaultEnvFile = ".env"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the web server
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig configures the guess store. Path accepts a file path or a URI.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CorpusConfig names the name corpus source. An empty source uses the embedded list.
type CorpusConfig struct {
	Source string `mapstructure:"source"`
	Format string `mapstructure:"format"`
}

// GeneratorConfig configures table generation. A zero seed seeds from the clock.
type GeneratorConfig struct {
	Rows int   `mapstructure:"rows"`
	Seed int64 `mapstructure:"seed"`
}

// LogConfig configures logging. An empty Dir disables the log file.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Dir      string `mapstructure:"dir"`
	MaxFiles int    `mapstructure:"max_files"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.path", store.DefaultPath)
	v.SetDefault("corpus.source", "")
	v.SetDefault("corpus.format", "")
	v.SetDefault("generator.rows", dataset.DefaultRowCount)
	v.SetDefault("generator.seed", 0)
	v.SetDefault("log.level", string(logging.LogLevelInfo))
	v.SetDefault("log.format", string(logging.LogFormatCustom))
	v.SetDefault("log.dir", "")
	v.SetDefault("log.max_files", 10)
}

// Load builds the configuration from v. configFile and envFile are optional;
// an explicitly named file that cannot be read is an error.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Deployments of the original service configure the database this way
	if err := v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH", "DATABASE_URI", "SQLALCHEMY_DATABASE_URI"); err != nil {
		return nil, fmt.Errorf("failed to bind database environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		envFile = DefaultEnvFile
	}
	if err := gotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Server.Address) == "" {
		err = multierr.Append(err, errors.New("server.address must not be empty"))
	}
	if _, _, perr := store.ParseURI(c.Database.Path); perr != nil {
		err = multierr.Append(err, fmt.Errorf("database.path: %w", perr))
	}
	switch corpus.Format(c.Corpus.Format) {
	case corpus.FormatAuto, corpus.FormatCSV, corpus.FormatTXT:
	default:
		err = multierr.Append(err, fmt.Errorf("corpus.format must be csv or txt, got %q", c.Corpus.Format))
	}
	if c.Generator.Rows <= 0 {
		err = multierr.Append(err, fmt.Errorf("generator.rows must be positive, got %d", c.Generator.Rows))
	}
	if lerr := c.LoggerConfig().Validate(); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log: %w", lerr))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoggerConfig converts the log section into a logger configuration
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	lc.Level = logging.LogLevel(c.Log.Level)
	lc.Format = logging.LogFormat(c.Log.Format)
	lc.OutputDir = c.Log.Dir
	lc.MaxFiles = c.Log.MaxFiles
	return lc
}

// NewRand returns the base random stream. A zero seed seeds from the clock.
func (g GeneratorConfig) NewRand() *rand.Rand {
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
