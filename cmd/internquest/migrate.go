package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/internquest/internquest-api/internal/infrastructure/db/postgres"
)

var databaseURL string

// NewMigrateCmd creates the migrate subcommand and its up, down and version
// children. Migrations only apply to the PostgreSQL credential store.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage PostgreSQL schema migrations",
		Long: `Apply or roll back the credential store schema. The database URL is
taken from --database-url or POSTGRES_URL.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection URL (defaults to POSTGRES_URL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Up(); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			cmd.Println("Migrations applied")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Down(); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			cmd.Println("Migrations rolled back")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("migrate version: %w", err)
			}
			cmd.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		}),
	})

	return cmd
}

func resolveDatabaseURL() (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}
	if url := os.Getenv("POSTGRES_URL"); url != "" {
		return url, nil
	}
	return "", errors.New("POSTGRES_URL environment variable or --database-url is required")
}

func withMigrator(run func(*cobra.Command, *postgres.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		url, err := resolveDatabaseURL()
		if err != nil {
			return err
		}

		m, err := postgres.NewMigrator(url)
		if err != nil {
			return fmt.Errorf("open migrator: %w", err)
		}
		defer m.Close()

		return run(cmd, m)
	}
}
