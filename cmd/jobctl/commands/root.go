package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"skill-hire/internal/config"
	"skill-hire/internal/database"
	dbpostgres "skill-hire/internal/database/postgres"
	"skill-hire/internal/pkg/logger"
)

// NewRootCmd creates the jobctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "jobctl",
		Short:        "Operational commands for the skill-hire service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newReconcileCommand(),
	)

	return rootCmd
}

type env struct {
	cfg config.Config
	log *logrus.Logger
}

func loadEnv() (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	return env{cfg: cfg, log: logger.New(cfg.App)}, nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
