package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/capitaldesk/desk/cmd/app/commands"
	"github.com/capitaldesk/desk/internal/app"
	"github.com/capitaldesk/desk/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "with-worker",
					Aliases: []string{"w"},
					Value:   false,
					Usage:   "Also run the notification outbox worker in this process",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version, cmd.Bool("with-worker"))
			},
		},
		{
			Name:  "worker",
			Usage: "Run the notification outbox worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, version)
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
			Name:  "seed",
			Usage: "Load tenants, users and buses from a YAML fixture",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"f"},
					Required: true,
					Usage:    "Path to the YAML fixture",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				file, err := os.Open(cmd.String("file"))
				if err != nil {
					return fmt.Errorf("failed to open seed fixture: %w", err)
				}
				defer func() { _ = file.Close() }()

				tenants, err := container.TenantUseCase()
				if err != nil {
					return err
				}
				users, err := container.UserUseCase()
				if err != nil {
					return err
				}
				buses, err := container.BusUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeed(
					ctx,
					commands.SeedDeps{Tenants: tenants, Users: users, Buses: buses},
					container.Logger(),
					file,
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
