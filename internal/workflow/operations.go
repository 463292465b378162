// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workflow

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/sysvault/internal/borg"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/prompt"
	"github.com/matt-FFFFFF/sysvault/internal/tui"
)

const (
	clearAllPhrase = "DELETE ALL"
	clearAllPrompt = "Write 'DELETE ALL' and press ENTER: "
)

// Prepare installs missing host packages, builds the borg environment and
// makes sure the repository exists. Every other operation needs it first.
func (w *Workflow) Prepare(ctx context.Context) error {
	w.System.EnsurePackages(ctx, w.Config.Packages)

	pass, err := borg.ResolvePassphrase(w.Config.Passphrase, w.getenv, w.Prompter)
	if err != nil {
		return err
	}

	env, err := borg.Env(w.Fs, w.Config.Repo, w.Config.KeyPath, pass)
	if err != nil {
		return err
	}

	w.borg = borg.NewClient(w.Exec, env, w.Config.Compression, w.Config.Encryption)

	_, err = w.borg.EnsureRepo(ctx)

	return err
}

// List prints the numbered archive table and returns the archives. An empty
// or unreadable repository prints "No archives" and returns none.
func (w *Workflow) List(ctx context.Context) ([]borg.Archive, error) {
	c, err := w.client()
	if err != nil {
		return nil, err
	}

	archives, err := c.ListArchives(ctx)
	if err != nil {
		ctxlog.Debug(ctx, "listing failed", "error", err)
	}

	if len(archives) == 0 {
		w.printf("No archives\n")
		return nil, nil
	}

	w.printf("\n📋 Archives:\n")
	w.rule()
	w.printf("%s\n", tui.ArchiveTable(archives))
	w.rule()

	return archives, nil
}

// Info shows the statistics and the last entries of an archive.
func (w *Workflow) Info(ctx context.Context, archive string) error {
	c, err := w.client()
	if err != nil {
		return err
	}

	w.printf("\n📊 %s\n", archive)

	if err := w.Monitor.Stream(ctx, "Info", c.InfoCommand(archive)); err != nil {
		return err
	}

	return w.Monitor.Stream(ctx, "Last 5", c.ListLastCommand(archive, lastEntries))
}

// Latest returns the name of the newest archive.
func (w *Workflow) Latest(ctx context.Context) (string, error) {
	c, err := w.client()
	if err != nil {
		return "", err
	}

	archives, err := c.ListArchives(ctx)
	if err != nil {
		return "", err
	}

	if len(archives) == 0 {
		return "", ErrNoArchives
	}

	return archives[len(archives)-1].Name, nil
}

// ClearAll deletes every archive and compacts the repository once the
// operator types the confirmation phrase. Both commands write straight to
// the terminal.
func (w *Workflow) ClearAll(ctx context.Context) error {
	c, err := w.client()
	if err != nil {
		return err
	}

	w.printf("⚠️ DELETE ALL %s?\n", c.Repo())

	ok, err := prompt.ConfirmPhrase(w.Prompter, clearAllPrompt, clearAllPhrase)
	if err != nil {
		return err
	}

	if !ok {
		ctxlog.Info(ctx, "Cancelled")
		return nil
	}

	w.printf("👉 Now running: borg delete ...\n")

	if err := w.Monitor.StreamPlain(ctx, "DELETE", c.DeleteAllCommand()); err != nil {
		return err
	}

	w.printf("👉 Now running: borg compact ...\n")

	return w.Monitor.StreamPlain(ctx, "Compact", c.CompactCommand())
}

func (w *Workflow) selectArchive(ctx context.Context) (string, error) {
	archives, err := w.List(ctx)
	if err != nil {
		return "", err
	}

	if len(archives) == 0 {
		return "", ErrNoArchives
	}

	if w.Picker != nil {
		return w.Picker.Pick(ctx, archives)
	}

	return prompt.SelectArchive(w.Prompter, w.Out, borg.Names(archives))
}

// IsUsageError reports whether err is a missing key or restore target, which
// end the process with exit code 2.
func IsUsageError(err error) bool {
	return errors.Is(err, borg.ErrKeyNotFound) || errors.Is(err, ErrTargetNotFound)
}
