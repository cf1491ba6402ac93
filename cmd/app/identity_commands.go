package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authcore/cmd/app/commands"
	"github.com/allisson/authcore/internal/app"
	"github.com/allisson/authcore/internal/config"
)

func getIdentityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-identity",
			Usage: "Register a new identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Identity type: user, service, agent, app, or anonymous",
				},
				&cli.StringFlag{
					Name:     "display-name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable display name",
				},
				&cli.StringFlag{
					Name:    "origin",
					Aliases: []string{"o"},
					Usage:   "App origin (required for app identities; the namespace is derived from it)",
				},
				&cli.BoolFlag{
					Name:  "claimable",
					Usage: "Create in the pending_claim state for later claiming",
				},
				&cli.StringFlag{
					Name:  "created-by",
					Usage: "Identity creating this one (required for claimable identities)",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Output JSON instead of text",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identities, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateIdentity(
					ctx,
					identities,
					container.Logger(),
					commands.CreateIdentityParams{
						Type:        cmd.String("type"),
						DisplayName: cmd.String("display-name"),
						Origin:      cmd.String("origin"),
						Claimable:   cmd.Bool("claimable"),
						CreatedBy:   cmd.String("created-by"),
						JSONOutput:  cmd.Bool("json"),
					},
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "create-credential",
			Usage: "Issue a new credential for an identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "identity-id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Owning identity",
				},
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "api_key",
					Usage:   "Credential type: api_key, bearer_token, refresh_token, or invitation",
				},
				&cli.StringSliceFlag{
					Name:    "capabilities",
					Aliases: []string{"c"},
					Usage:   "Capabilities the credential is scoped to (omit for unrestricted)",
				},
				&cli.StringSliceFlag{
					Name:  "namespaces",
					Usage: "Namespaces the credential is scoped to (omit for unrestricted)",
				},
				&cli.DurationFlag{
					Name:    "expires-in",
					Aliases: []string{"e"},
					Usage:   "Credential lifetime (omit for the configured default)",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Output JSON instead of text",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				credentials, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateCredential(
					ctx,
					credentials,
					container.Logger(),
					commands.CreateCredentialParams{
						IdentityID:   cmd.String("identity-id"),
						Type:         cmd.String("type"),
						Capabilities: cmd.StringSlice("capabilities"),
						Namespaces:   cmd.StringSlice("namespaces"),
						ExpiresIn:    cmd.Duration("expires-in"),
						JSONOutput:   cmd.Bool("json"),
					},
					commands.DefaultIO(),
				)
			},
		},
	}
}
