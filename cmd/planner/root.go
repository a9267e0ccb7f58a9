package main

import (
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "AI study planner: Canvas import and LLM scheduling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (default ./config.yaml)")

	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUsersCmd(),
		newTasksCmd(),
		newImportCmd(),
		newScheduleCmd(),
	)
	return cmd
}
