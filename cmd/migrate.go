package cmd

import (
	"fmt"

	"knowledge-assistant/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := database.Migrate(cmd.Context(), rt.db); err != nil {
			rt.logger.Error("Migration failed", zap.Error(err))
			return err
		}

		version, err := database.MigrationVersion(cmd.Context(), rt.db)
		if err != nil {
			return err
		}
		rt.logger.Info("Migrations applied", zap.Int64("version", version))
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}
