package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/sqlscript/internal/config"
	"github.com/leapstack-labs/sqlscript/pkg/core"
	"github.com/leapstack-labs/sqlscript/pkg/recase"
	"github.com/leapstack-labs/sqlscript/pkg/sqlfile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Recase   bool
	Parallel int
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Execute SQL script files",
		Long: `Execute each SQL file against the configured target.

Every file is sent to the database as a single command on its own
connection. Results are printed in the order the files were given.`,
		Example: `  # Run a script against the target in sqlscript.yaml
  sqlscript run queries/report.sql

  # Run against an ad-hoc Postgres database with camelCase keys
  sqlscript run --type postgres --connection-string "$PG_CONNECTION_STRING" --recase report.sql

  # Run several files, four at a time, as CSV
  sqlscript run --parallel 4 --format csv a.sql b.sql c.sql d.sql`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringP("format", "f", "", "Output format (auto|table|json|yaml|csv)")
	cmd.Flags().String("type", "", "Adapter type, overriding target.type")
	cmd.Flags().String("connection-string", "", "Connection string, overriding target.connection_string")
	cmd.Flags().String("path", "", "Database file for duckdb/sqlite, overriding target.path")
	cmd.Flags().BoolVar(&opts.Recase, "recase", false, "Convert column names from snake_case to camelCase")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "p", 1, "Number of files to execute concurrently")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

type fileRun struct {
	path   string
	result core.ScriptResult
	err    error
}

func runRun(cmd *cobra.Command, files []string, opts *RunOptions) error {
	if opts.Parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1")
	}

	global := GetOptions(cmd.Context())
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:  global.ConfigFile,
		Environment: global.Target,
		Flags:       cmd.Flags(),
	})
	if err != nil {
		return err
	}

	logger, err := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", "path", cfg.ConfigFile, "environment", cfg.Environment)
	}

	format, err := ResolveFormat(cfg.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	exec := sqlfile.New(sqlfile.Config{Logger: logger})
	target := cfg.Target.AdapterConfig()

	runs := make([]fileRun, len(files))
	var g errgroup.Group
	g.SetLimit(opts.Parallel)
	for i, path := range files {
		g.Go(func() error {
			res, err := exec.ExecuteFile(cmd.Context(), path, target)
			runs[i] = fileRun{path: path, result: res, err: err}
			// Failures are reported per file; the other files still run.
			return nil
		})
	}
	_ = g.Wait()

	return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, runs, opts.Recase)
}

func report(out, errOut io.Writer, format string, runs []fileRun, recaseKeys bool) error {
	failed := 0
	for _, r := range runs {
		if r.err != nil {
			failed++
			var execErr *sqlfile.ExecError
			if errors.As(r.err, &execErr) {
				_, _ = fmt.Fprintf(errOut, "Error [%s] %s: %v\n", execErr.Kind, r.path, execErr.Err)
			} else {
				_, _ = fmt.Fprintf(errOut, "Error %s: %v\n", r.path, r.err)
			}
			continue
		}

		if recaseKeys {
			for _, qr := range r.result {
				qr.Rows = recase.Rows(qr.Rows)
			}
		}
		if err := renderResults(out, format, r.path, r.result); err != nil {
			return fmt.Errorf("failed to render results of %s: %w", r.path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(runs))
	}
	return nil
}
