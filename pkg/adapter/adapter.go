// Package adapter provides the database adapter contract, a shared
// database/sql base implementation, and the adapter registry.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init(). Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlscript/pkg/adapters/postgres"
package adapter

import (
	"errors"

	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// Type aliases onto pkg/core so adapters only need to import this package.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Field is an alias for core.Field.
	Field = core.Field

	// Result is an alias for core.QueryResult.
	Result = core.QueryResult

	// ScriptResult is an alias for core.ScriptResult.
	ScriptResult = core.ScriptResult
)

// ErrNotConnected is returned by operations attempted before Connect succeeded.
var ErrNotConnected = errors.New("database connection not established")
