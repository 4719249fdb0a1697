// Package config loads sqlscript configuration.
//
// Sources are layered, lowest to highest precedence: built-in defaults,
// sqlscript.yaml, SQLSCRIPT_* environment variables and explicitly set
// command-line flags. Files named .env and .env.<environment> next to the
// config are loaded into the process environment first, without
// overriding variables that are already set.
package config

import (
	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// EnvConfig is an alias for the per-environment overrides.
type EnvConfig = core.EnvironmentConfig

// Config holds all configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	Output       string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
	// DotEnvFiles lists the .env files that were loaded.
	DotEnvFiles []string `koanf:"-"`
}

// Config file names, in lookup order.
const (
	ConfigFileName    = "sqlscript.yaml"
	ConfigFileNameAlt = "sqlscript.yml"
)

// EnvPrefix prefixes every environment variable read into the config.
// A double underscore nests: SQLSCRIPT_TARGET__TYPE sets target.type.
const EnvPrefix = "SQLSCRIPT_"

// Default configuration values.
const (
	DefaultEnv      = "dev"
	DefaultOutput   = "auto" // Auto-detect: TTY=table, non-TTY=json
	DefaultLogLevel = "warn"
	DefaultType     = "duckdb"
	DefaultPort     = 5432
)

// PostgresConnEnv is consulted when a postgres target has no connection details.
const PostgresConnEnv = "PG_CONNECTION_STRING"
