package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

const app = "jobboardctl"

var (
	databaseURL string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "jobboardctl administers the job board database",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg := loadConfig()
			telemetry.SetLogger(telemetry.New(cfg.LogLevel, "console"))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres URL (default is $DATABASE_URL)")
}

func loadConfig() config.Config {
	cfg := config.Load()
	if strings.TrimSpace(databaseURL) != "" {
		cfg.DatabaseURL = strings.TrimSpace(databaseURL)
	}
	return cfg
}

func openDB(ctx context.Context) (*sql.DB, error) {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL or --database-url is required")
	}
	return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
}

// services builds the Postgres-backed services the subcommands share.
func services(database *sql.DB) (*users.Service, *jobs.Service) {
	return users.NewService(&users.PGRepo{DB: database}), jobs.NewService(&jobs.PGRepo{DB: database})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
