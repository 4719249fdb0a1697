// Package pq provides a PostgreSQL adapter that goes through database/sql
// with the lib/pq driver.
//
// lib/pq exposes every row-returning statement of a script as its own
// result set. Statements that return no rows do not produce one.
package pq

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/leapstack-labs/sqlscript/pkg/adapters/postgres"

	_ "github.com/lib/pq" // postgres driver
)

// Adapter implements the adapter.Adapter interface on top of lib/pq.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new lib/pq adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "pq"
}

// Connect opens a database/sql handle and verifies it with a ping.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.ConnectionString
	if dsn == "" {
		dsn = postgres.BuildDSN(cfg)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	a.Logger.Debug("connecting to postgres via lib/pq",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
