package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and ExecScript implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
// Calling Close on an adapter that never connected is a no-op.
func (b *BaseSQLAdapter) Close() error {
	if b.DB == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing database connection")
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// ExecScript runs the script as a single query and collects every result
// set the driver exposes through sql.Rows.NextResultSet.
func (b *BaseSQLAdapter) ExecScript(ctx context.Context, script string) (core.ScriptResult, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	rows, err := b.DB.QueryContext(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results, err := CollectResultSets(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// CollectResultSets drains rows, including any further result sets.
// The caller still owns rows and must close it.
func CollectResultSets(rows *sql.Rows) (core.ScriptResult, error) {
	var results core.ScriptResult
	for {
		res, err := collectResultSet(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func collectResultSet(rows *sql.Rows) (*core.QueryResult, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	res := &core.QueryResult{Fields: make([]core.Field, len(colTypes))}
	for i, ct := range colTypes {
		res.Fields[i] = core.Field{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	for rows.Next() {
		values := make([]any, len(colTypes))
		valuePtrs := make([]any, len(colTypes))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := core.NewRecord[any](len(colTypes))
		for i, f := range res.Fields {
			val := values[i]
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row.Set(f.Name, val)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res.RowsAffected = int64(len(res.Rows))
	return res, nil
}
