package main

import (
	"context"
	"log/slog"
	"time"

	"membership/config"
	"membership/internal/errors"
	logs "membership/internal/infra/log"
	"membership/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the registration table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runMigrate(ctx)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "operation timeout")

	return cmd
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg, Buffer: logs.NewBuffer(cfg)})
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	defer func() { _ = sqlDB.Close() }()

	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "db ping")
	}

	if err := postgres.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}

	logger.Info("Schema migration applied", slog.String("driver", cfg.Database.Driver))

	return nil
}
