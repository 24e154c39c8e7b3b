package main

import (
	"context"
	"log/slog"
	"os"

	"membership/config"
	"membership/internal/delivery"
	"membership/internal/delivery/api"
	"membership/internal/delivery/api/router/handler"
	"membership/internal/domain/validation"
	"membership/internal/infra/auth"
	"membership/internal/infra/cache"
	logs "membership/internal/infra/log"
	"membership/internal/infra/metrics"
	"membership/internal/infra/persistence/postgres"
	"membership/internal/infra/pubsub"
	"membership/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "membership",
		Short:        "Member registration service",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newServeCommand(),
		newWorkerCommand(),
		newMigrateCommand(),
	)

	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()

			return nil
		},
	}
}

func newApp() *fx.App {
	return fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	)
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.NewBuffer,
			logs.New,
			context.Background,
			postgres.New,
			metrics.NewRegistry,
			metrics.New,
		),
		cache.Module,
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewMemberRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			validation.New,
			auth.NewBcryptHasher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewRegistrationService,
			impl.NewAuthenticationService,
			impl.NewDirectoryService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewMemberHandler,
			handler.NewLogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
