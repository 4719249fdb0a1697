// Package cli provides the command-line interface for sqlscript.
package cli

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sqlscript/internal/cli/commands"
	"github.com/spf13/cobra"

	// Register the built-in adapters.
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/pq"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/sqlite"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &commands.Options{}

	rootCmd := &cobra.Command{
		Use:   "sqlscript",
		Short: "sqlscript - run SQL files against a database",
		Long: `sqlscript reads SQL script files and executes each one against a
database as a single command, printing the results.

Targets are configured in sqlscript.yaml, through SQLSCRIPT_* environment
variables or with flags.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(commands.WithOptions(cmd.Context(), opts))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: ./sqlscript.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.Target, "target", "t", "", "Environment to use from the environments section (e.g., dev, staging, prod)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"dev", "staging", "prod"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewAdaptersCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
