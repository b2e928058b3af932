package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diarioapp/diario/internal/config"
	"github.com/diarioapp/diario/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("database at %s is at schema version %d\n", cfg.DatabasePath, storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
