// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package restore implements the restore subcommand.
package restore

import (
	"context"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/matt-FFFFFF/sysvault/internal/config"
	"github.com/matt-FFFFFF/sysvault/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	targetFlag = "target"
	tuiFlag    = "tui"
)

// Command returns the restore subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Extract an archive into a target directory",
		Description: `Choose an archive, review it and extract it into the target directory.

The archive prompt accepts its number in the list, its name, or Enter for the
newest. With --all, SQL dumps, packages, services and the crontab are restored
after extraction.`,
		Flags: []cli.Flag{
			app.AllFlagDef("Also restore databases and system state"),
			&cli.StringFlag{
				Name:  targetFlag,
				Usage: "Directory to extract into",
				Value: config.DefaultTarget,
			},
			&cli.BoolFlag{
				Name:    tuiFlag,
				Aliases: []string{"t", "interactive"},
				Usage:   "Pick the archive from an interactive table",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx, w, done, err := app.Setup(ctx, cmd)
	defer done()

	if err != nil {
		return app.Exit(ctx, err)
	}

	if cmd.Bool(tuiFlag) {
		w.Picker = tui.Picker{Out: w.Out}
	}

	return app.Exit(ctx, w.Restore(ctx, cmd.String(targetFlag), cmd.Bool(app.AllFlag)))
}
