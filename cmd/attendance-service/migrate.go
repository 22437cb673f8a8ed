package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/config"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/db"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.Open(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(database); err != nil {
		log.Error().Err(err).Msg("migrations failed")
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}
