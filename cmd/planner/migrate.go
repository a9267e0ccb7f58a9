package main

import (
	"github.com/phrazzld/aiplanner/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadBase(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			return postgres.Migrate(app.db, args[0], app.logger)
		},
	}
}
