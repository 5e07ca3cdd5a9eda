// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/booking/cmd/app/commands"
	"github.com/allisson/booking/internal/app"
	"github.com/allisson/booking/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Appointment booking service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "run-tasks",
				Usage: "Process one batch of due tasks",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					taskUseCase, err := container.TaskUseCase()
					if err != nil {
						return err
					}

					return commands.RunTasks(ctx, taskUseCase, container.Logger(), commands.DefaultIO().Writer)
				},
			},
			{
				Name:  "cleanup-holds",
				Usage: "Cancel pending appointments whose holds have expired",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					bookingUseCase, err := container.BookingUseCase()
					if err != nil {
						return err
					}

					return commands.RunCleanupHolds(ctx, bookingUseCase, container.Logger(), commands.DefaultIO().Writer)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
