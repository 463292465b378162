// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package monitor runs long commands under a titled banner, drawing their
// output through a live tail when stdout is a terminal and passing it
// through untouched otherwise.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/sysvault/internal/color"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/livetail"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

// ErrCommandFailed is returned when a monitored command does not succeed.
var ErrCommandFailed = errors.New("command failed")

// CommandError describes a failed monitored command.
type CommandError struct {
	Title    string
	ExitCode int
	LastLine string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s: exit code %d", ErrCommandFailed, e.Title, e.ExitCode)
	if e.LastLine != "" {
		msg += ": " + e.LastLine
	}

	return msg
}

// Unwrap returns ErrCommandFailed and the underlying run error.
func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// Monitor streams commands to an output.
type Monitor struct {
	executor   runbatch.Executor
	out        io.Writer
	live       bool
	tailLines  int
	isTerminal func(io.Writer) bool
	renderOpts []livetail.Option
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLive turns the live tail on or off. It is on by default.
func WithLive(v bool) Option {
	return func(m *Monitor) {
		m.live = v
	}
}

// WithTailLines sets the number of tail lines drawn.
func WithTailLines(n int) Option {
	return func(m *Monitor) {
		m.tailLines = n
	}
}

// WithTerminalCheck replaces terminal detection on the output.
func WithTerminalCheck(f func(io.Writer) bool) Option {
	return func(m *Monitor) {
		m.isTerminal = f
	}
}

// WithRenderOptions passes extra options to every live tail session.
func WithRenderOptions(opts ...livetail.Option) Option {
	return func(m *Monitor) {
		m.renderOpts = append(m.renderOpts, opts...)
	}
}

// New returns a Monitor running commands with exec and writing to out.
func New(exec runbatch.Executor, out io.Writer, opts ...Option) *Monitor {
	m := &Monitor{
		executor:   exec,
		out:        out,
		live:       true,
		tailLines:  livetail.DefaultTailLines,
		isTerminal: color.IsTerminal,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Live reports whether Stream would draw a live tail right now.
func (m *Monitor) Live() bool {
	return m.live && m.isTerminal(m.out)
}

// Stream prints a banner for title and runs cmd. With a live tail, output is
// read line by line as it arrives and each line redraws the tail; the session
// is finished once the process has exited and its output is drained.
// Without one, the process writes to the terminal directly.
func (m *Monitor) Stream(ctx context.Context, title string, cmd *runbatch.OSCommand) error {
	return m.stream(ctx, title, cmd, m.Live())
}

// StreamPlain is Stream without the live tail, for commands that prompt or
// redraw the terminal themselves.
func (m *Monitor) StreamPlain(ctx context.Context, title string, cmd *runbatch.OSCommand) error {
	return m.stream(ctx, title, cmd, false)
}

func (m *Monitor) stream(ctx context.Context, title string, cmd *runbatch.OSCommand, live bool) error {
	_, _ = fmt.Fprintf(m.out, "\n=== %s ===\n", title)

	var res *runbatch.Result

	if live {
		opts := append([]livetail.Option{
			livetail.WithTailLines(m.tailLines),
			livetail.WithInteractive(true),
		}, m.renderOpts...)
		session := livetail.New(m.out, opts...)

		cmd.PassThrough = false
		cmd.LineSink = session.Update

		res = m.executor.Execute(ctx, cmd)

		session.Finish()
	} else {
		cmd.PassThrough = true
		cmd.LineSink = nil

		res = m.executor.Execute(ctx, cmd)
	}

	if res.Status != runbatch.ResultStatusSuccess {
		ctxlog.Error(ctx, "command failed", "step", title, "exitCode", res.ExitCode, "error", res.Error)

		return &CommandError{
			Title:    title,
			ExitCode: res.ExitCode,
			LastLine: res.LastLine,
			Err:      res.Error,
		}
	}

	ctxlog.Info(ctx, "OK", "step", title)

	return nil
}
