package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the InternQuest CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "internquest",
		Short: "InternQuest - internship marketplace API",
		Long: `InternQuest serves account registration, cookie sessions and the
internship marketplace over HTTP. Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
