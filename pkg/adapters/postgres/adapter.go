// Package postgres provides a PostgreSQL adapter built on pgx's native
// connection.
//
// Scripts are sent over the simple query protocol, so a script holding
// several statements yields one result per statement, in order.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	conn   *pgx.Conn
	cfg    core.AdapterConfig
	Logger *slog.Logger
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Logger: logger}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "postgres"
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	connString := cfg.ConnectionString
	if connString == "" {
		connString = BuildDSN(cfg)
	}

	connCfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("failed to parse postgres connection string: %w", err)
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", connCfg.Host),
		slog.Int("port", int(connCfg.Port)),
		slog.String("database", connCfg.Database))

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.conn = conn
	a.cfg = cfg
	return nil
}

// Close closes the connection. Calling Close before Connect is a no-op.
func (a *Adapter) Close() error {
	if a.conn == nil {
		return nil
	}
	a.Logger.Debug("closing database connection")
	err := a.conn.Close(context.Background())
	a.conn = nil
	return err
}

// IsConnected returns true if the database connection is established.
func (a *Adapter) IsConnected() bool {
	return a.conn != nil
}

// ExecScript sends the whole script as one simple-protocol query and
// returns one result per statement.
func (a *Adapter) ExecScript(ctx context.Context, script string) (core.ScriptResult, error) {
	if a.conn == nil {
		return nil, adapter.ErrNotConnected
	}

	results, err := a.conn.PgConn().Exec(ctx, script).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}

	out := make(core.ScriptResult, 0, len(results))
	for _, r := range results {
		qr, err := decodeResult(a.conn.TypeMap(), r)
		if err != nil {
			return nil, err
		}
		out = append(out, qr)
	}
	return out, nil
}

// decodeResult converts a raw pgconn result into rows of Go values using
// the connection's type map. Unknown types fall back to their text form.
func decodeResult(m *pgtype.Map, r *pgconn.Result) (*core.QueryResult, error) {
	qr := &core.QueryResult{
		Command:      r.CommandTag.String(),
		RowsAffected: r.CommandTag.RowsAffected(),
		Fields:       make([]core.Field, len(r.FieldDescriptions)),
	}
	for i, fd := range r.FieldDescriptions {
		qr.Fields[i] = core.Field{Name: fd.Name, Type: typeName(m, fd.DataTypeOID)}
	}

	for _, raw := range r.Rows {
		row := core.NewRecord[any](len(r.FieldDescriptions))
		for i, fd := range r.FieldDescriptions {
			val, err := decodeValue(m, fd, raw[i])
			if err != nil {
				return nil, fmt.Errorf("failed to decode column %q: %w", fd.Name, err)
			}
			row.Set(fd.Name, val)
		}
		qr.Rows = append(qr.Rows, row)
	}
	return qr, nil
}

func decodeValue(m *pgtype.Map, fd pgconn.FieldDescription, src []byte) (any, error) {
	if src == nil {
		return nil, nil
	}
	t, ok := m.TypeForOID(fd.DataTypeOID)
	if !ok {
		return string(src), nil
	}
	return t.Codec.DecodeValue(m, fd.DataTypeOID, fd.Format, src)
}

func typeName(m *pgtype.Map, oid uint32) string {
	if t, ok := m.TypeForOID(oid); ok {
		return t.Name
	}
	return fmt.Sprintf("oid:%d", oid)
}

// BuildDSN renders the discrete connection fields of cfg as a libpq
// keyword/value connection string. The pq adapter shares it.
func BuildDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := cfg.Option("sslmode")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d", host, port)
	if cfg.Database != "" {
		dsn += fmt.Sprintf(" dbname=%s", quoteDSNValue(cfg.Database))
	}
	dsn += fmt.Sprintf(" sslmode=%s", sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", quoteDSNValue(cfg.Username))
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", quoteDSNValue(cfg.Password))
	}

	// Remaining options (sslrootcert, connect_timeout, application_name, ...)
	// are passed through in a stable order.
	var extra []string
	for k := range cfg.Options {
		if k != "sslmode" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		dsn += fmt.Sprintf(" %s=%s", k, quoteDSNValue(cfg.Options[k]))
	}

	return dsn
}

// quoteDSNValue quotes a keyword/value DSN value when it contains spaces,
// quotes or backslashes.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
