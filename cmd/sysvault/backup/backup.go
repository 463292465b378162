// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package backup implements the backup subcommand.
package backup

import (
	"context"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/urfave/cli/v3"
)

// Command returns the backup subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Create an archive of /",
		Description: `Create an archive of / named after the short host name and the current time.

With --all the backup covers the whole system: docker is stopped while the
archive is made, installed packages, enabled services and the crontab are
recorded, MySQL and PostgreSQL are dumped, and host identity files are excluded.`,
		Flags: []cli.Flag{
			app.AllFlagDef("Full-system backup including databases and system state"),
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

	_, err = w.Backup(ctx, cmd.Bool(app.AllFlag))

	return app.Exit(ctx, err)
}
