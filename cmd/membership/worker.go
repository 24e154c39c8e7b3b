package main

import (
	"context"

	"membership/config"
	"membership/internal/delivery/worker"
	"membership/internal/delivery/worker/handler"
	"membership/internal/infra/cache"
	logs "membership/internal/infra/log"
	"membership/internal/infra/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume member events pushed by Pub/Sub",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newWorkerApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()

			return nil
		},
	}
}

func newWorkerApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.New,
			logs.NewBuffer,
			logs.New,
			metrics.NewRegistry,
			metrics.New,
			handler.NewPushHandler,
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
		cache.Module,
		fx.Provide(context.Background),
		fx.Invoke(
			startServer,
		),
	)
}
