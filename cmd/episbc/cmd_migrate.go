package main

import (
	"github.com/spf13/cobra"

	"episbc/adapters/postgres"
	"episbc/adapters/postgres/migrations"
	"episbc/internal/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				migrator, cleanup, err := openMigrator()
				if err != nil {
					return err
				}
				defer cleanup()
				return migrator.Up(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				migrator, cleanup, err := openMigrator()
				if err != nil {
					return err
				}
				defer cleanup()
				return migrator.Status(cmd.Context())
			},
		},
	)
	return cmd
}

func openMigrator() (*migrations.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return migrations.NewMigrator(db.DB), func() { db.Close() }, nil
}
