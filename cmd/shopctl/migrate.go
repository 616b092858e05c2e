package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/basetishop/shop_api/internal/config"
	"github.com/basetishop/shop_api/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back the schema migrations shipped with the API.

Database settings are read from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
DB_NAME and DB_SSLMODE (a .env file in the working directory is honoured).`,
	}
	cmd.PersistentFlags().StringVar(&source, "source", database.DefaultMigrationsURL, "Migration source URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(source, func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withMigrator(source, func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(source, func(m *migrate.Migrate) error {
				return printVersion(cmd, m)
			})
		},
	})

	return cmd
}

func withMigrator(source string, fn func(m *migrate.Migrate) error) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	db, err := database.Connect(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db.DB, source)
	if err != nil {
		return err
	}
	log.Debug().Str("source", source).Str("database", dbCfg.Name).Msg("migrator ready")
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
	return nil
}
