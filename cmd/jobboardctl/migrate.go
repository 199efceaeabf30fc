package main

import (
	"github.com/spf13/cobra"

	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/telemetry"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		database, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		if migrateStatus {
			return db.MigrationStatus(ctx, database)
		}
		if err := db.RunMigrations(ctx, database); err != nil {
			return err
		}
		telemetry.Info("migrate.done", nil)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print migration status instead of applying")
}
