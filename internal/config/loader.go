package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/spf13/pflag"
)

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit config path. Empty means look in Dir.
	ConfigFile string
	// Dir is searched for sqlscript.yaml and .env files. Empty means the
	// nearest directory at or above the cwd holding a config file, else cwd.
	Dir string
	// Environment selects an entry of environments, overriding the
	// environment key of the file.
	Environment string
	// Flags are applied last. Only flags with Changed set are used.
	Flags *pflag.FlagSet
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"type":              "target.type",
	"connection-string": "target.connection_string",
	"path":              "target.path",
	"format":            "output",
	"target":            "environment",
}

// Load reads configuration from every source and validates the target.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
		if wd, err := os.Getwd(); err == nil && opts.ConfigFile == "" {
			if root := FindProjectRoot(wd); root != "" {
				dir = root
			}
		}
	}

	cfgFile := findConfigFile(opts.ConfigFile, dir)
	envDir := dir
	if cfgFile != "" {
		envDir = filepath.Dir(cfgFile)
	}

	// The environment decides which .env.<environment> is read, so it has
	// to be known before the environment provider runs.
	envName := opts.Environment
	if envName == "" {
		envName = os.Getenv(EnvPrefix + "ENVIRONMENT")
	}
	if envName == "" {
		envName = DefaultEnv
	}
	dotenvs, err := LoadDotEnv(envDir, envName)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"environment": DefaultEnv,
		"verbose":     false,
		"log_level":   DefaultLogLevel,
		"output":      DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables: SQLSCRIPT_TARGET__CONNECTION_STRING -> target.connection_string
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile
	cfg.DotEnvFiles = dotenvs

	if opts.Environment != "" {
		cfg.Environment = opts.Environment
	}
	if envCfg, ok := cfg.Environments[cfg.Environment]; ok && envCfg.Target != nil {
		cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
	}
	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultType}
	}

	expandTargetEnvVars(cfg.Target)
	ApplyTargetDefaults(cfg.Target)

	if err := ValidateTarget(cfg.Target); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile returns explicit if given, else the first config file
// found in dir, else "".
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file. Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if findConfigFile("", dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unknown variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in target fields that
// commonly carry credentials or locations.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = expandEnvVars(t.Type)
	t.ConnectionString = expandEnvVars(t.ConnectionString)
	t.Path = expandEnvVars(t.Path)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.User = expandEnvVars(t.User)
	t.Password = expandEnvVars(t.Password)
	for k, v := range t.Options {
		t.Options[k] = expandEnvVars(v)
	}
}

// ApplyTargetDefaults fills in type-specific defaults.
// Postgres targets without any connection details fall back to
// PG_CONNECTION_STRING.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)

	switch t.Type {
	case "postgres", "pq":
		if t.ConnectionString == "" && t.Host == "" {
			t.ConnectionString = os.Getenv(PostgresConnEnv)
		}
		if t.ConnectionString == "" && t.Port == 0 {
			t.Port = DefaultPort
		}
	}
}

// ValidateTarget checks the target against the adapter registry.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}
