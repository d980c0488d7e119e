package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msomdec/discount-pro/internal/repository/sqlite"
	"github.com/msomdec/discount-pro/internal/repository/sqlite/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sqlite.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pending, err := migrations.Pending(cmd.Context(), db.SqlDB)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		slog.Info("database is up to date", "path", cfg.Storage.DatabasePath)
		return nil
	}

	if err := db.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "count", len(pending))
	return nil
}
