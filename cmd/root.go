package cmd

import (
	"github.com/spf13/cobra"
)

// New constructs the root command for tidewatch
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tidewatch",
		Short:         "Mirror of job dependencies and run history from a batch scheduler",
		Long:          "tidewatch keeps a local snapshot of the dependency graph and execution history of jobs managed by an external batch-job scheduler.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		NewGraphCommand(),
		NewRefreshCommand(),
		NewHistoryCommand(),
	)
	return cmd
}
