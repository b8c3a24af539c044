package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. Built fresh per call so tests can
// point output and arguments at their own buffers.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devtool",
		Short:         "ToolForge developer tooling",
		Long:          `Developer commands for migrating tool state, waiting on the database, probing a running forge, validating material packs and reading the event dead-letter file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newWaitForDBCmd())
	root.AddCommand(newHealthCheckCmd(nil))
	root.AddCommand(newCheckMaterialsCmd())
	root.AddCommand(newDeadLettersCmd())
	return root
}
