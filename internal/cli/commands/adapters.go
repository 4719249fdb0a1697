package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List available database adapters",
		Long: `List the adapter types a target can use.

Set one with target.type in sqlscript.yaml or with --type.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range adapter.ListAdapters() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
