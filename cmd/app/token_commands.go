package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authcore/cmd/app/commands"
	"github.com/allisson/authcore/internal/app"
	"github.com/allisson/authcore/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-token",
			Usage: "Mint a stateless resource token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "resource-id",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Hex resource identifier (e.g., abc123abc123)",
				},
				&cli.StringFlag{
					Name:  "resource-type",
					Value: "channel",
					Usage: "Resource type: channel, log, or blob",
				},
				&cli.StringSliceFlag{
					Name:    "permissions",
					Aliases: []string{"p"},
					Usage:   "Permissions: read, append, read_deleted, delete_own, delete_any",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Author display name embedded in the token",
				},
				&cli.IntFlag{
					Name:    "expires-in",
					Aliases: []string{"e"},
					Value:   3600,
					Usage:   "Token lifetime in seconds",
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "Signing secret (omit to use the resource's stored signing key)",
				},
				&cli.StringFlag{
					Name:  "wire-format",
					Usage: "Pin the wire format: v2, v3, v4, or unified (omit for automatic)",
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

				signingKeys, err := container.SigningKeyUseCase(ctx)
				if err != nil {
					return err
				}

				return commands.RunCreateToken(
					ctx,
					container.Codec(),
					signingKeys,
					container.Logger(),
					commands.CreateTokenParams{
						ResourceType: cmd.String("resource-type"),
						ResourceID:   cmd.String("resource-id"),
						Permissions:  cmd.StringSlice("permissions"),
						DisplayName:  cmd.String("name"),
						ExpiresIn:    int64(cmd.Int("expires-in")),
						Secret:       cmd.String("secret"),
						Format:       cmd.String("wire-format"),
						JSONOutput:   cmd.Bool("json"),
					},
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "verify-token",
			Usage: "Decode and authenticate a resource token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token string to verify",
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "Signing secret (omit to use the resource's stored signing key)",
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

				signingKeys, err := container.SigningKeyUseCase(ctx)
				if err != nil {
					return err
				}

				return commands.RunVerifyToken(
					ctx,
					container.Codec(),
					signingKeys,
					container.Logger(),
					cmd.String("token"),
					cmd.String("secret"),
					cmd.Bool("json"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "parse-token",
			Usage: "Extract a token's routing fields without verification",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token string to parse",
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

				return commands.RunParseToken(
					container.Codec(),
					cmd.String("token"),
					cmd.Bool("json"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "create-claim-token",
			Usage: "Mint a single-use identity claim token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "identity-id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Pending identity the token claims",
				},
				&cli.StringFlag{
					Name:     "created-by",
					Required: true,
					Usage:    "Identity creating the token",
				},
				&cli.StringFlag{
					Name:    "label",
					Aliases: []string{"l"},
					Usage:   "Human-readable label for the token",
				},
				&cli.DurationFlag{
					Name:    "expires-in",
					Aliases: []string{"e"},
					Usage:   "Token lifetime (omit for the configured default)",
				},
				&cli.StringFlag{
					Name:  "gateway-url",
					Usage: "Gateway URL embedded in the share links",
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

				tokens, err := container.StatefulTokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClaimToken(
					ctx,
					tokens,
					container.Logger(),
					commands.CreateClaimTokenParams{
						IdentityID: cmd.String("identity-id"),
						CreatedBy:  cmd.String("created-by"),
						Label:      cmd.String("label"),
						ExpiresIn:  cmd.Duration("expires-in"),
						GatewayURL: cmd.String("gateway-url"),
						JSONOutput: cmd.Bool("json"),
					},
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "revoke-token",
			Usage: "Revoke a stateful token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token-id",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token identifier (tk_...)",
				},
				&cli.StringFlag{
					Name:    "reason",
					Aliases: []string{"r"},
					Usage:   "Reason recorded with the revocation",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokens, err := container.StatefulTokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeToken(
					ctx,
					tokens,
					container.Logger(),
					cmd.String("token-id"),
					cmd.String("reason"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
