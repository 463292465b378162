// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package showconfig implements the config subcommand.
package showconfig

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/matt-FFFFFF/sysvault/internal/config"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// Command returns the config subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved configuration as YAML",
		Description: `Print the configuration that would be used, after defaults, the --config
file and flags are applied. The output is a valid --config file; the passphrase
is redacted. Nothing is run on the host.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, err := app.LoadConfig(ctx, cmd)
	if err != nil {
		if !app.IsUsage(err) {
			return app.Exit(ctx, err)
		}

		ctxlog.Warn(ctx, "configuration is incomplete", "error", err)
	}

	out, err := config.Marshal(cfg)
	if err != nil {
		return app.Exit(ctx, err)
	}

	_, _ = fmt.Fprint(cmd.Root().Writer, string(out))

	return nil
}
