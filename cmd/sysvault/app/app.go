// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package app holds the flags shared by every sysvault subcommand and turns
// them into a prepared workflow.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/sysvault/internal/config"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/monitor"
	"github.com/matt-FFFFFF/sysvault/internal/prompt"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
	"github.com/matt-FFFFFF/sysvault/internal/system"
	"github.com/matt-FFFFFF/sysvault/internal/workflow"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	RepoFlag      = "repo"
	KeyFlag       = "key"
	PasswordFlag  = "password"
	ConfigFlag    = "config"
	LogFlag       = "log"
	TailLinesFlag = "tail-lines"
	NoLiveFlag    = "no-live"
	StateDirFlag  = "state-dir"
	AllFlag       = "all"

	exitFailure = 1
	exitUsage   = 2
	logFileMode = 0o600
	logDirMode  = 0o755
)

// Replaced in tests.
var (
	newExecutor = func() runbatch.Executor { return runbatch.OSExecutor{} }
	newFs       = afero.NewOsFs
	newPrompter = func() prompt.Prompter { return prompt.LinerPrompter{} }
	hasCommand  = runbatch.HasCommand
	isTerminal  func(io.Writer) bool
)

// Flags are defined on the root command and available to every subcommand.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    RepoFlag,
			Usage:   "Borg repository, e.g. ssh://user@host/./backups",
			Sources: cli.EnvVars("BORG_REPO"),
		},
		&cli.StringFlag{
			Name:      KeyFlag,
			Usage:     "SSH identity file used to reach the repository",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:    PasswordFlag,
			Usage:   "Repository passphrase, prompted for when not given",
			Sources: cli.EnvVars("BORG_PASSPHRASE"),
		},
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "URL of a YAML or HCL configuration file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      LogFlag,
			Usage:     "Also append JSON log records to this file, relative to the working directory",
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  TailLinesFlag,
			Usage: "Number of output lines shown under the progress line",
			Value: config.DefaultTailLines,
		},
		&cli.BoolFlag{
			Name:  NoLiveFlag,
			Usage: "Pass command output straight through instead of drawing a live tail",
		},
		&cli.StringFlag{
			Name:  StateDirFlag,
			Usage: "Directory package, service and crontab state is saved to",
			Value: config.DefaultStateDir,
		},
	}
}

// AllFlagDef is the --all flag of backup and restore.
func AllFlagDef(usage string) cli.Flag {
	return &cli.BoolFlag{
		Name:  AllFlag,
		Usage: usage,
	}
}

// LoadConfig resolves defaults, the config file and flags, in that order.
func LoadConfig(ctx context.Context, cmd *cli.Command) (config.Config, error) {
	cfg := config.Defaults()

	if u := cmd.String(ConfigFlag); u != "" {
		var err error
		if cfg, err = config.Load(ctx, u, cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Apply(overrides(cmd))

	return cfg, cfg.Validate()
}

func overrides(cmd *cli.Command) config.Overrides {
	var o config.Overrides

	// An empty value, such as an exported but blank BORG_REPO, is not an override.
	str := func(name string) *string {
		v := cmd.String(name)
		if !cmd.IsSet(name) || v == "" {
			return nil
		}

		return &v
	}

	o.Repo = str(RepoFlag)
	o.KeyPath = str(KeyFlag)
	o.Passphrase = str(PasswordFlag)
	o.StateDir = str(StateDirFlag)
	o.LogFile = str(LogFlag)

	if cmd.IsSet(TailLinesFlag) {
		v := cmd.Int(TailLinesFlag)
		o.TailLines = &v
	}

	if cmd.IsSet(NoLiveFlag) {
		v := cmd.Bool(NoLiveFlag)
		o.NoLive = &v
	}

	return o
}

// Setup loads the configuration, attaches the log file and prepares a
// workflow writing to the root command's writer. The returned func closes
// the log file.
func Setup(ctx context.Context, cmd *cli.Command) (context.Context, *workflow.Workflow, func(), error) {
	done := func() {}

	cfg, err := LoadConfig(ctx, cmd)
	if err != nil {
		return ctx, nil, done, err
	}

	fs := newFs()

	if cfg.LogFile != "" {
		var f afero.File
		if f, err = openLog(fs, cfg.LogFile); err != nil {
			return ctx, nil, done, err
		}

		ctx = ctxlog.New(ctx, ctxlog.WithLogFile(ctxlog.Logger(ctx), f))
		done = func() { _ = f.Close() }
	}

	ctxlog.Info(ctx, "Start", "args", os.Args)

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	exec := newExecutor()

	monOpts := []monitor.Option{
		monitor.WithLive(cfg.Live),
		monitor.WithTailLines(cfg.TailLines),
	}
	if isTerminal != nil {
		monOpts = append(monOpts, monitor.WithTerminalCheck(isTerminal))
	}

	w := &workflow.Workflow{
		Config:   cfg,
		Exec:     exec,
		Monitor:  monitor.New(exec, out, monOpts...),
		System:   system.New(exec, fs, cfg.StateDir, cfg.DumpDir, system.WithCommandCheck(hasCommand)),
		Prompter: newPrompter(),
		Fs:       fs,
		Out:      out,
	}

	if err := w.Prepare(ctx); err != nil {
		return ctx, nil, done, err
	}

	return ctx, w, done, nil
}

func openLog(fs afero.Fs, name string) (afero.File, error) {
	path, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}

	if err := fs.MkdirAll(filepath.Dir(path), logDirMode); err != nil {
		return nil, err
	}

	return fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
}

// Exit converts an operation error into a cli exit error. Missing settings,
// key or restore target exit with 2, other failures with 1.
func Exit(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	ctxlog.Error(ctx, "❌ "+err.Error())

	code := exitFailure
	if IsUsage(err) {
		code = exitUsage
	}

	return cli.Exit("", code)
}

// IsUsage reports whether err exits with the usage code.
func IsUsage(err error) bool {
	return workflow.IsUsageError(err) ||
		errors.Is(err, config.ErrRepoRequired) ||
		errors.Is(err, config.ErrKeyRequired) ||
		errors.Is(err, config.ErrTailLines)
}
