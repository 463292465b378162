// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package info implements the info subcommand.
package info

import (
	"context"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/urfave/cli/v3"
)

// Command returns the info subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show statistics and the last entries of an archive",
		ArgsUsage: "[archive]",
		Description: `Show borg info and the last five entries of an archive.
Without an archive name the newest archive is shown.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx, w, done, err := app.Setup(ctx, cmd)
	defer done()

	if err != nil {
		return app.Exit(ctx, err)
	}

	archive := cmd.Args().First()
	if archive == "" {
		if archive, err = w.Latest(ctx); err != nil {
			return app.Exit(ctx, err)
		}
	}

	return app.Exit(ctx, w.Info(ctx, archive))
}
