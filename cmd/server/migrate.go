package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
	mongoInfra "github.com/fastygo/tasktracker/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/tasktracker/internal/infrastructure/postgres"
	mongoRepo "github.com/fastygo/tasktracker/repository/mongo"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the configured store schema and exit",
	Long: `Applies the SQL migrations when STORE_DRIVER=postgres, or creates the
collection indexes when STORE_DRIVER=mongo. The in-memory store needs nothing.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Context.ShutdownTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.StorePostgres:
		cfg.Migrations.Enabled = true
		return pgInfra.RunMigrations(cfg, log)

	case config.StoreMongo:
		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, log, mongoRepo.EnsureIndexes)
		if err != nil {
			return fmt.Errorf("mongo client: %w", err)
		}
		defer func() { _ = client.Close(context.Background()) }()
		if err := client.EnsureConnected(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info("mongo indexes ensured", zap.String("database", cfg.Mongo.Database))
		return nil

	default:
		log.Info("nothing to migrate", zap.String("store", cfg.Store.Driver))
		return nil
	}
}
