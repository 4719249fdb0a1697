// Package sqlfile runs a SQL script stored in a file against a database.
//
// Each call reads the file, opens one connection through the adapter
// registry, sends the whole file as a single command and closes the
// connection again, whether or not the script succeeded. The script is
// never parsed or split; grouping of results is left to the engine.
package sqlfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// AdapterFactory creates an unconnected adapter for cfg.
type AdapterFactory func(cfg core.AdapterConfig, logger *slog.Logger) (core.Adapter, error)

// Config holds executor configuration. All fields are optional.
type Config struct {
	// Logger is the structured logger (uses discard if nil)
	Logger *slog.Logger
	// NewAdapter resolves adapters (defaults to adapter.NewAdapter)
	NewAdapter AdapterFactory
	// ReadFile reads the script (defaults to os.ReadFile)
	ReadFile func(path string) ([]byte, error)
}

// Executor runs SQL files. It holds no per-call state and is safe for
// concurrent use.
type Executor struct {
	logger     *slog.Logger
	newAdapter AdapterFactory
	readFile   func(string) ([]byte, error)
}

// New creates an executor.
func New(cfg Config) *Executor {
	e := &Executor{
		logger:     cfg.Logger,
		newAdapter: cfg.NewAdapter,
		readFile:   cfg.ReadFile,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.newAdapter == nil {
		e.newAdapter = adapter.NewAdapter
	}
	if e.readFile == nil {
		e.readFile = os.ReadFile
	}
	return e
}

var defaultExecutor = New(Config{})

// ExecuteFile runs the script at path with the default executor.
func ExecuteFile(ctx context.Context, path string, cfg core.AdapterConfig) (core.ScriptResult, error) {
	return defaultExecutor.ExecuteFile(ctx, path, cfg)
}

// ExecuteFile reads the file at path and executes its full contents as one
// command against the database described by cfg.
//
// On failure the result is nil and the error is an *ExecError.
func (e *Executor) ExecuteFile(ctx context.Context, path string, cfg core.AdapterConfig) (core.ScriptResult, error) {
	log := e.logger.With("exec_id", uuid.New().String(), "path", path)

	script, err := e.readScript(log, path)
	if err != nil {
		return nil, e.fail(log, KindFileAccess, path, err)
	}
	if strings.TrimSpace(script) == "" {
		return nil, e.fail(log, KindQuery, path, ErrEmptyScript)
	}

	db, err := e.newAdapter(cfg, e.logger)
	if err != nil {
		return nil, e.fail(log, KindConfig, path, err)
	}

	log.Debug("connecting to database", "adapter_type", cfg.Type)
	if err := db.Connect(ctx, cfg); err != nil {
		// Adapters release partial handles themselves when Connect fails.
		return nil, e.fail(log, KindConnection, path, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close connection", "error", err)
		}
	}()

	log.Info("executing script", "dialect", db.DialectName())
	result, err := db.ExecScript(ctx, script)
	if err != nil {
		return nil, e.fail(log, KindQuery, path, err)
	}
	log.Info("script executed", "results", len(result))

	return result, nil
}

func (e *Executor) readScript(log *slog.Logger, path string) (string, error) {
	log.Debug("reading script")

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	data, err := e.readFile(abs)
	if err != nil {
		return "", err
	}

	log.Debug("script read", "bytes", len(data))
	return string(data), nil
}

func (e *Executor) fail(log *slog.Logger, kind Kind, path string, err error) error {
	log.Error("script execution failed", "kind", kind.String(), "error", err)

	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr
	}
	return &ExecError{Kind: kind, Path: path, Err: err}
}
