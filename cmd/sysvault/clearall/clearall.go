// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package clearall implements the clear-all subcommand.
package clearall

import (
	"context"

	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/urfave/cli/v3"
)

// Command returns the clear-all subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "clear-all",
		Usage: "Delete every archive and compact the repository",
		Description: `Delete every archive in the repository, then compact it.
The operator must type DELETE ALL to confirm.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx, w, done, err := app.Setup(ctx, cmd)
	defer done()

	if err != nil {
		return app.Exit(ctx, err)
	}

	return app.Exit(ctx, w.ClearAll(ctx))
}
