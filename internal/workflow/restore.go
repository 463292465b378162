// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/prompt"
	"github.com/spf13/afero"
)

const overwritePrompt = "Overwrite? y/N: "

// Restore extracts an archive chosen by the operator into target.
//
// With all set, SQL dumps found after extraction are loaded, saved system
// state is reapplied and the LXD agent is repaired. Those steps each run even
// if an earlier one fails; their errors are returned together.
func (w *Workflow) Restore(ctx context.Context, target string, all bool) error {
	c, err := w.client()
	if err != nil {
		return err
	}

	tp, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTargetNotFound, target, err)
	}

	if ok, _ := afero.Exists(w.Fs, tp); !ok {
		w.printf("❌ %s\n", tp)
		return fmt.Errorf("%w: %s", ErrTargetNotFound, tp)
	}

	archive, err := w.selectArchive(ctx)
	if err != nil {
		return err
	}

	if err := w.Info(ctx, archive); err != nil {
		return err
	}

	w.printf("🎯 %s\n", tp)

	ok, err := prompt.Confirm(w.Prompter, overwritePrompt)
	if err != nil {
		return err
	}

	if !ok {
		ctxlog.Info(ctx, "Cancelled")
		return nil
	}

	if err := w.Monitor.Stream(ctx, "RESTORE", c.ExtractCommand(archive, tp, w.Config.Excludes.Restore)); err != nil {
		return err
	}

	var merr *multierror.Error

	if all {
		if err := w.System.RestoreSQL(ctx); err != nil {
			merr = multierror.Append(merr, err)
		}

		if err := w.System.RestoreState(ctx); err != nil {
			merr = multierror.Append(merr, err)
		}

		w.System.FixLXDAgent(ctx)
	}

	ctxlog.Info(ctx, "✅ Reboot?")

	return merr.ErrorOrNil()
}
