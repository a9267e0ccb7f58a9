package main

import (
	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect a user's tasks",
	}
	cmd.AddCommand(newTasksListCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var (
		username       string
		includeDeleted bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks ordered by due date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := newApplication(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			user, err := app.lookupUser(ctx, username)
			if err != nil {
				return err
			}
			tasks, err := app.tasks.ListTasks(ctx, user.ID, includeDeleted)
			if err != nil {
				return err
			}
			renderTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "include soft-deleted tasks")
	return cmd
}
