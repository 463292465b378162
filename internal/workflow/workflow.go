// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workflow implements the sysvault operations: list, info, backup,
// restore and clear-all. A Workflow carries everything an operation needs, so
// operations share no global state and can be driven by fakes in tests.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matt-FFFFFF/sysvault/internal/borg"
	"github.com/matt-FFFFFF/sysvault/internal/config"
	"github.com/matt-FFFFFF/sysvault/internal/monitor"
	"github.com/matt-FFFFFF/sysvault/internal/prompt"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
	"github.com/matt-FFFFFF/sysvault/internal/system"
	"github.com/matt-FFFFFF/sysvault/internal/tui"
	"github.com/spf13/afero"
)

const (
	lastEntries = 5
	ruleWidth   = 60
)

var (
	// ErrTargetNotFound is returned when the restore target does not exist.
	ErrTargetNotFound = errors.New("restore target not found")
	// ErrNoArchives is returned when a restore finds an empty repository.
	ErrNoArchives = errors.New("no archives")
	// ErrNotPrepared is returned when an operation runs before Prepare.
	ErrNotPrepared = errors.New("workflow not prepared")
)

// ArchivePicker chooses one of archives.
type ArchivePicker interface {
	Pick(ctx context.Context, archives []borg.Archive) (string, error)
}

var _ ArchivePicker = tui.Picker{}

// Workflow is the context of one sysvault run.
type Workflow struct {
	Config   config.Config
	Exec     runbatch.Executor
	Monitor  *monitor.Monitor
	System   *system.System
	Prompter prompt.Prompter
	Picker   ArchivePicker // optional, the line prompt is used when nil
	Fs       afero.Fs
	Out      io.Writer
	Now      func() time.Time
	Hostname func() (string, error)
	Getenv   func(string) string

	borg *borg.Client
}

// Borg returns the repository client set up by Prepare.
func (w *Workflow) Borg() *borg.Client {
	return w.borg
}

func (w *Workflow) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(w.Out, format, a...)
}

func (w *Workflow) rule() {
	w.printf("%s\n", strings.Repeat("─", ruleWidth))
}

func (w *Workflow) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}

	return w.Now()
}

func (w *Workflow) hostname() string {
	f := w.Hostname
	if f == nil {
		f = os.Hostname
	}

	h, err := f()
	if err != nil || h == "" {
		return "localhost"
	}

	return h
}

func (w *Workflow) getenv(key string) string {
	if w.Getenv == nil {
		return os.Getenv(key)
	}

	return w.Getenv(key)
}

func (w *Workflow) client() (*borg.Client, error) {
	if w.borg == nil {
		return nil, ErrNotPrepared
	}

	return w.borg, nil
}
