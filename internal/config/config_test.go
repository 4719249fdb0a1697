package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/pq"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/sqlite"
)

const testdataDir = "testdata"

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{"nil target", nil, true, "target type is required"},
		{"empty type", &TargetConfig{}, true, "target type is required"},
		{"valid duckdb", &TargetConfig{Type: "duckdb"}, false, ""},
		{"valid duckdb uppercase", &TargetConfig{Type: "DuckDB"}, false, ""},
		{"valid postgres", &TargetConfig{Type: "postgres"}, false, ""},
		{"valid pq", &TargetConfig{Type: "pq"}, false, ""},
		{"valid sqlite", &TargetConfig{Type: "sqlite"}, false, ""},
		{"unknown type mysql", &TargetConfig{Type: "mysql"}, true, "unknown adapter type"},
		{"unknown type oracle", &TargetConfig{Type: "oracle"}, true, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SQLSCRIPT_TEST_EXPAND", "value")
	t.Setenv("SQLSCRIPT_TEST_EMPTY", "")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"${SQLSCRIPT_TEST_EXPAND}", "value"},
		{"pre-${SQLSCRIPT_TEST_EXPAND}-post", "pre-value-post"},
		{"${SQLSCRIPT_TEST_EMPTY}", ""},
		{"${SQLSCRIPT_TEST_NOT_SET_ANYWHERE}", "${SQLSCRIPT_TEST_NOT_SET_ANYWHERE}"},
		{"$SQLSCRIPT_TEST_EXPAND", "$SQLSCRIPT_TEST_EXPAND"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{
		Type:     "postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "music",
		User:     "app",
		Options:  map[string]string{"sslmode": "disable", "application_name": "sqlscript"},
		Params:   map[string]any{"a": 1},
	}
	override := &TargetConfig{
		Host:    "prod.db",
		Options: map[string]string{"sslmode": "require"},
		Params:  map[string]any{"b": 2},
	}

	merged := MergeTargetConfig(base, override)

	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "prod.db", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, "music", merged.Database)
	assert.Equal(t, map[string]string{"sslmode": "require", "application_name": "sqlscript"}, merged.Options)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged.Params)

	assert.Equal(t, "localhost", base.Host, "base must not be modified")
	assert.Equal(t, "disable", base.Options["sslmode"], "base options must not be modified")

	assert.Same(t, override, MergeTargetConfig(nil, override))
	assert.Same(t, base, MergeTargetConfig(base, nil))
}

func TestApplyTargetDefaults(t *testing.T) {
	t.Run("postgres falls back to PG_CONNECTION_STRING", func(t *testing.T) {
		t.Setenv(PostgresConnEnv, "postgres://u:p@db/music")
		target := &TargetConfig{Type: "Postgres"}
		ApplyTargetDefaults(target)
		assert.Equal(t, "postgres", target.Type)
		assert.Equal(t, "postgres://u:p@db/music", target.ConnectionString)
		assert.Zero(t, target.Port)
	})

	t.Run("explicit host ignores PG_CONNECTION_STRING", func(t *testing.T) {
		t.Setenv(PostgresConnEnv, "postgres://u:p@db/music")
		target := &TargetConfig{Type: "pq", Host: "other"}
		ApplyTargetDefaults(target)
		assert.Empty(t, target.ConnectionString)
		assert.Equal(t, DefaultPort, target.Port)
	})

	t.Run("sqlite untouched", func(t *testing.T) {
		t.Setenv(PostgresConnEnv, "postgres://u:p@db/music")
		target := &TargetConfig{Type: "sqlite", Path: "a.db"}
		ApplyTargetDefaults(target)
		assert.Equal(t, &TargetConfig{Type: "sqlite", Path: "a.db"}, target)
	})

	t.Run("nil is a no-op", func(_ *testing.T) {
		ApplyTargetDefaults(nil)
	})
}

func TestLoad_Fixtures(t *testing.T) {
	t.Setenv(PostgresConnEnv, "")

	t.Run("valid duckdb config", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "valid_duckdb.yaml")})
		require.NoError(t, err)

		assert.Equal(t, "duckdb", cfg.Target.Type)
		assert.Equal(t, ":memory:", cfg.Target.Path)
		assert.Equal(t, []any{"json"}, cfg.Target.Params["extensions"])
		assert.Equal(t, DefaultEnv, cfg.Environment)
		assert.Equal(t, DefaultOutput, cfg.Output)
		assert.Equal(t, filepath.Join(testdataDir, "valid_duckdb.yaml"), cfg.ConfigFile)
	})

	t.Run("environment from file", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "valid_with_envs.yaml")})
		require.NoError(t, err)

		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "music_dev", cfg.Target.Database)
		assert.Equal(t, "localhost", cfg.Target.Host)
		assert.Equal(t, DefaultPort, cfg.Target.Port)
	})

	t.Run("environment override to staging", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			ConfigFile:  filepath.Join(testdataDir, "valid_with_envs.yaml"),
			Environment: "staging",
		})
		require.NoError(t, err)

		assert.Equal(t, "staging", cfg.Environment)
		assert.Equal(t, "staging.db.internal", cfg.Target.Host)
		assert.Equal(t, "music_staging", cfg.Target.Database)
		assert.Equal(t, "require", cfg.Target.Options["sslmode"])
		assert.Equal(t, "app", cfg.Target.User, "base fields survive the merge")
	})

	t.Run("environment switching adapter type", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			ConfigFile:  filepath.Join(testdataDir, "valid_with_envs.yaml"),
			Environment: "local",
		})
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, "local.db", cfg.Target.Path)
	})

	t.Run("unknown environment keeps base target", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			ConfigFile:  filepath.Join(testdataDir, "valid_with_envs.yaml"),
			Environment: "nonexistent",
		})
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "music", cfg.Target.Database)
	})

	t.Run("invalid unknown type", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "invalid_unknown_type.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid target configuration")
		assert.Contains(t, err.Error(), "mysql")
	})

	t.Run("invalid empty type", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "invalid_empty_type.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target type is required")
	})

	t.Run("config with env vars", func(t *testing.T) {
		t.Setenv("SQLSCRIPT_TEST_DB_HOST", "db.example.com")
		t.Setenv("SQLSCRIPT_TEST_DB_USER", "testuser")
		t.Setenv("SQLSCRIPT_TEST_DB_PASSWORD", "secret123")

		cfg, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "valid_env_vars.yaml")})
		require.NoError(t, err)

		assert.Equal(t, "db.example.com", cfg.Target.Host)
		assert.Equal(t, "testuser", cfg.Target.User)
		assert.Equal(t, "secret123", cfg.Target.Password)
		assert.Equal(t, "${SQLSCRIPT_TEST_UNSET_VAR}", cfg.Target.Database)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(testdataDir, "does_not_exist.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, DefaultType, cfg.Target.Type)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_FindsConfigInDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileNameAlt, "target:\n  type: sqlite\n  path: app.db\n")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileNameAlt), cfg.ConfigFile)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, dir, FindProjectRoot(filepath.Join(dir)))
}

func TestLoad_FindsConfigAboveCwd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "target:\n  type: sqlite\n")
	sub := filepath.Join(dir, "scripts", "reports")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFile)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, dir, FindProjectRoot(sub))
	assert.Empty(t, FindProjectRoot(t.TempDir()))
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `output: table
target:
  type: sqlite
  path: from_file.db
`)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SQLSCRIPT_TARGET__PATH", "from_env.db")
		t.Setenv("SQLSCRIPT_OUTPUT", "yaml")

		cfg, err := Load(LoadOptions{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, "from_env.db", cfg.Target.Path)
		assert.Equal(t, "yaml", cfg.Output)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("SQLSCRIPT_TARGET__PATH", "from_env.db")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("path", "", "")
		flags.String("format", "", "")
		require.NoError(t, flags.Set("path", "from_flag.db"))
		require.NoError(t, flags.Set("format", "csv"))

		cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
		require.NoError(t, err)
		assert.Equal(t, "from_flag.db", cfg.Target.Path)
		assert.Equal(t, "csv", cfg.Output)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		t.Setenv("SQLSCRIPT_TARGET__PATH", "from_env.db")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("path", "", "")

		cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
		require.NoError(t, err)
		assert.Equal(t, "from_env.db", cfg.Target.Path)
	})

	t.Run("type flag switches adapter", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("type", "", "")
		flags.String("connection-string", "", "")
		require.NoError(t, flags.Set("type", "pq"))
		require.NoError(t, flags.Set("connection-string", "postgres://localhost/music"))

		cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
		require.NoError(t, err)
		assert.Equal(t, "pq", cfg.Target.Type)
		assert.Equal(t, "postgres://localhost/music", cfg.Target.ConnectionString)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "target:\n  type: ${SQLSCRIPT_TEST_DOTENV_TYPE}\n  path: ${SQLSCRIPT_TEST_DOTENV_PATH}\n")
	writeFile(t, dir, ".env", "SQLSCRIPT_TEST_DOTENV_TYPE=sqlite\nSQLSCRIPT_TEST_DOTENV_PATH=from_dotenv.db\n")
	writeFile(t, dir, ".env.ci", "SQLSCRIPT_TEST_DOTENV_PATH=from_ci.db\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("SQLSCRIPT_TEST_DOTENV_TYPE")
		_ = os.Unsetenv("SQLSCRIPT_TEST_DOTENV_PATH")
	})

	cfg, err := Load(LoadOptions{Dir: dir, Environment: "ci"})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "from_ci.db", cfg.Target.Path, ".env.<environment> wins over .env")
	assert.Equal(t, []string{filepath.Join(dir, ".env.ci"), filepath.Join(dir, ".env")}, cfg.DotEnvFiles)
}

func TestLoadDotEnv_KeepsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "SQLSCRIPT_TEST_KEEP=from_file\n")
	t.Setenv("SQLSCRIPT_TEST_KEEP", "from_process")

	loaded, err := LoadDotEnv(dir, "")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, "from_process", os.Getenv("SQLSCRIPT_TEST_KEEP"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	loaded, err := LoadDotEnv(t.TempDir(), "prod")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "target.connection_string", envKey("SQLSCRIPT_TARGET__CONNECTION_STRING"))
	assert.Equal(t, "log_level", envKey("SQLSCRIPT_LOG_LEVEL"))
	assert.Equal(t, "target.options.sslmode", envKey("SQLSCRIPT_TARGET__OPTIONS__SSLMODE"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
