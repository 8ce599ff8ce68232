package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrateFlags = struct {
	dir   string
	steps int
}{}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.PersistentFlags().StringVar(&migrateFlags.dir, "dir", "migrations", "directory holding the .sql migrations")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, func(m *migrate.Migrate) error { return m.Up() })
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if migrateFlags.steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			return runMigrate(cmd, func(m *migrate.Migrate) error { return m.Steps(-migrateFlags.steps) })
		},
	}
	down.Flags().IntVar(&migrateFlags.steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func runMigrate(cmd *cobra.Command, apply func(*migrate.Migrate) error) error {
	cfg, _, err := commonRun()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+migrateFlags.dir, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Fprintln(cmd.OutOrStdout(), "schema is empty")
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
	}
	return nil
}
