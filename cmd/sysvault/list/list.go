// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the list subcommand.
package list

import (
	"context"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/urfave/cli/v3"
)

// Command returns the list subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List the archives in the repository",
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx, w, done, err := app.Setup(ctx, cmd)
	defer done()

	if err != nil {
		return app.Exit(ctx, err)
	}

	_, err = w.List(ctx)

	return app.Exit(ctx, err)
}
