package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/ideabox-api/internal/repository/mongodb"
	"github.com/jwalitptl/ideabox-api/internal/repository/postgres"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema or create the mongo indexes",
		RunE:  runMigrate,
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest postgres migration")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, _, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := cmd.Context()

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, postgresConfig(cfg.Database.Postgres))
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db.DB, migrateRollback); err != nil {
			return err
		}
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            cfg.Database.Mongo.URI,
			Database:       cfg.Database.Mongo.Name,
			ConnectTimeout: cfg.Database.Mongo.ConnectTimeout,
		})
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	default:
		log.Info().Str("driver", cfg.Database.Driver).Msg("nothing to migrate")
		return nil
	}

	log.Info().Str("driver", cfg.Database.Driver).Bool("rollback", migrateRollback).Msg("migration complete")
	return nil
}
