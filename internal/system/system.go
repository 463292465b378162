// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package system drives the host tools around a backup: apt and dpkg,
// systemd, the SQL dump tools and crontab.
package system

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	dockerStopSettle  = 2 * time.Second
	dockerStartSettle = 3 * time.Second
)

// System runs host commands through an Executor and reads and writes state
// files through an afero filesystem.
type System struct {
	exec       runbatch.Executor
	fs         afero.Fs
	stateDir   string
	dumpDir    string
	sleep      func(context.Context, time.Duration)
	hasCommand func(string) bool
}

// Option configures a System.
type Option func(*System)

// WithSleep replaces the wait after stopping and starting services.
func WithSleep(f func(context.Context, time.Duration)) Option {
	return func(s *System) {
		s.sleep = f
	}
}

// WithCommandCheck replaces the PATH lookup used to detect optional tools.
func WithCommandCheck(f func(string) bool) Option {
	return func(s *System) {
		s.hasCommand = f
	}
}

// New returns a System keeping state under stateDir and SQL dumps under dumpDir.
func New(exec runbatch.Executor, fs afero.Fs, stateDir, dumpDir string, opts ...Option) *System {
	s := &System{
		exec:       exec,
		fs:         fs,
		stateDir:   stateDir,
		dumpDir:    dumpDir,
		sleep:      sleepCtx,
		hasCommand: runbatch.HasCommand,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// run executes cmd and logs a failure as a warning. It reports success.
func (s *System) run(ctx context.Context, cmd *runbatch.OSCommand) (*runbatch.Result, bool) {
	res := s.exec.Execute(ctx, cmd)
	if res.Status != runbatch.ResultStatusSuccess {
		ctxlog.Warn(ctx, "command failed", "step", cmd.GetLabel(), "exitCode", res.ExitCode, "error", res.Error)
		return res, false
	}

	return res, true
}

func elevated(label, path string, args ...string) *runbatch.OSCommand {
	cmd := runbatch.NewOSCommand(label, path, args...)
	cmd.Elevate = true

	return cmd
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
