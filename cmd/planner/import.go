package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// canvasTokenEnv is read when --token is not given, keeping the token out of shell history.
const canvasTokenEnv = "PLANNER_CANVAS_TOKEN"

func newImportCmd() *cobra.Command {
	var (
		username string
		token    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import Canvas assignments for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if token == "" {
				token = os.Getenv(canvasTokenEnv)
			}

			app, err := newApplication(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			user, err := app.lookupUser(ctx, username)
			if err != nil {
				return err
			}

			summary, err := app.imports.ImportFromCanvas(ctx, user.ID, token)
			printMessages(cmd.OutOrStdout(), summary.Messages)
			if err != nil {
				return err
			}
			renderImportSummary(cmd.OutOrStdout(), summary)
			if summary.FailedCourses > 0 {
				return fmt.Errorf("%d of %d courses failed to import", summary.FailedCourses, summary.Courses)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVar(&token, "token", "", "Canvas access token (defaults to $"+canvasTokenEnv+")")
	return cmd
}
