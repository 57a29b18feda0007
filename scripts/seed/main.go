package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"funlabs/internal/config"
	"funlabs/internal/seed"
	"funlabs/internal/store"
	"funlabs/internal/utils"
	"funlabs/migrations"

	"github.com/spf13/cobra"
)

func main() {
	var force bool

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load the sample topics, lessons and questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when topics already exist")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := utils.NewFileLogger(cfg.Logging.LogFile, cfg.Logging.Debug)
	if err != nil {
		return err
	}
	defer logger.Close()

	db, err := store.OpenWithConfig(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.MigrateFS(db, migrations.FS, "."); err != nil {
		return err
	}

	fixture, err := seed.Default()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	learningStore := store.NewPostgresLearningStore(db)

	existing, err := learningStore.ListTopics(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !force {
		logger.Info("seed", fmt.Sprintf("Database already has %d topics, skipping (use --force to seed anyway)", len(existing)))
		return nil
	}

	logger.Info("seed", "Starting database seed")
	_, err = seed.Apply(ctx, learningStore, fixture, logger)
	return err
}
