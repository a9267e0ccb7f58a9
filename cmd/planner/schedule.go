package main

import (
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and apply a study schedule for a user",
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

			result, err := app.schedules.GenerateSchedule(ctx, user.ID)
			if err != nil {
				return err
			}
			printMessages(cmd.OutOrStdout(), result.Messages)
			if result.Empty {
				return nil
			}
			renderTasks(cmd.OutOrStdout(), result.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	return cmd
}
