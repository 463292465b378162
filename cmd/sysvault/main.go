// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the sysvault command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/sysvault"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/app"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/backup"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/clearall"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/info"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/list"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/restore"
	"github.com/matt-FFFFFF/sysvault/cmd/sysvault/showconfig"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

func newRootCmd(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			list.Command(),
			info.Command(),
			backup.Command(),
			restore.Command(),
			clearall.Command(),
			showconfig.Command(),
		},
		Flags:     app.Flags(),
		Writer:    out,
		ErrWriter: errOut,
		Name:      "sysvault",
		Description: `sysvault backs up and restores whole Linux systems with BorgBackup.
It wraps borg and the host tools around it: apt and dpkg, systemd, the SQL dump
tools and crontab. Long running borg commands are shown as a live progress line
with the most recent output lines below it.`,
		Usage:     "sysvault --repo ssh://user@host/./backups --key ~/.ssh/backup backup --all",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		Version:               fmt.Sprintf("%s (commit: %s)", sysvault.Version, sysvault.Commit),
		EnableShellCompletion: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	err := newRootCmd(os.Stdout, os.Stderr).Run(ctx, os.Args) // exit codes are handled by the cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
