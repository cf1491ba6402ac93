// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "authcore",
		Usage:   "Capability token and credential management for the storage gateway",
		Version: "1.0.0",
	}
	cmd.Commands = append(cmd.Commands, getTokenCommands()...)
	cmd.Commands = append(cmd.Commands, getIdentityCommands()...)

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
