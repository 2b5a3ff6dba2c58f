package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/capitaldesk/desk/cmd/app/commands"
	"github.com/capitaldesk/desk/internal/app"
	"github.com/capitaldesk/desk/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-tenant",
			Usage: "Create a new tenant (bus operator)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "slug",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Tenant slug used at login, e.g. 'capital'",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable tenant name",
				},
				formatFlag("f"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateTenant(
					ctx,
					tenantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("slug"),
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-user",
			Usage: "Create a user inside a tenant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "tenant",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Tenant slug",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "User email",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "User display name",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "ADMIN",
					Usage:   "Role: ADMIN, BACKOFFICE, TECHNICIAN, PLANNER, SUPERVISOR, HELPDESK or AUDITOR",
				},
				&cli.StringFlag{
					Name:    "capabilities",
					Aliases: []string{"c"},
					Usage:   "Comma-separated capabilities, e.g. 'STS_READ,PLANNER'",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Initial password (omit for interactive prompt)",
				},
				formatFlag("f"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}
				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					tenantUseCase,
					userUseCase,
					container.Logger(),
					commands.DefaultIO(),
					commands.CreateUserArgs{
						TenantSlug:   cmd.String("tenant"),
						Email:        cmd.String("email"),
						Name:         cmd.String("name"),
						Role:         cmd.String("role"),
						Capabilities: cmd.String("capabilities"),
						Password:     cmd.String("password"),
						Format:       cmd.String("format"),
					},
				)
			},
		},
		{
			Name:  "clean-expired-sessions",
			Usage: "Delete sessions that expired more than the given days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   0,
					Usage:   "Delete sessions expired longer than this many days",
				},
				formatFlag("f"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				sessionUseCase, err := container.SessionUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredSessions(
					ctx,
					sessionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.String("format"),
				)
			},
		},
	}
}
