package core

// ProjectConfig holds project-level configuration.
type ProjectConfig struct {
	Target       *TargetConfig                `koanf:"target"`
	Environments map[string]EnvironmentConfig `koanf:"environments"`
}

// EnvironmentConfig holds the overrides applied when an environment is selected.
type EnvironmentConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, pq, duckdb, sqlite

	ConnectionString string `koanf:"connection_string"`

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Additional driver-specific options (sslmode, sslrootcert, ...)
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the config adapters connect with.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	if t == nil {
		return AdapterConfig{}
	}
	return AdapterConfig{
		Type:             t.Type,
		ConnectionString: t.ConnectionString,
		Path:             t.Path,
		Host:             t.Host,
		Port:             t.Port,
		Database:         t.Database,
		Username:         t.User,
		Password:         t.Password,
		Options:          t.Options,
		Params:           t.Params,
	}
}
