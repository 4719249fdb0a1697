package core

import (
	"context"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// ExecScript sends the whole script to the engine as a single command
	// and returns every result set the engine reports, in order.
	ExecScript(ctx context.Context, script string) (ScriptResult, error)

	// DialectName returns the name the adapter is registered under.
	DialectName() string
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type string

	// ConnectionString takes precedence over the discrete fields when set.
	ConnectionString string

	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	Params   map[string]any
}

// Option returns the named driver option, or "" if unset.
func (c AdapterConfig) Option(name string) string {
	if c.Options == nil {
		return ""
	}
	return c.Options[name]
}
