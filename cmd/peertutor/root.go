package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the peertutor CLI. Without a
// subcommand it serves the site.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peertutor",
		Short: "peertutor - peer tutoring matchmaking for students",
		Long: `peertutor matches students who want help in a subject with
students who volunteer to tutor it.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewPromoteCmd())

	return cmd
}
