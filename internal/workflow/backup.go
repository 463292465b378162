// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workflow

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/sysvault/internal/borg"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

// ErrBackupFailed is returned when any backup step fails.
var ErrBackupFailed = errors.New("backup failed")

// Backup creates an archive of / named after the host and the current time.
//
// With all set the backup is of the whole system: docker is stopped while
// the archive is made, package, service and crontab state is saved and SQL
// servers are dumped, and the identity excludes apply. Dumps are removed and
// docker is started again whether or not the archive was created.
func (w *Workflow) Backup(ctx context.Context, all bool) (string, error) {
	c, err := w.client()
	if err != nil {
		return "", err
	}

	archive := borg.ArchiveName(w.hostname(), w.now())
	docker := all && w.System.DockerActive(ctx)

	var (
		dumps []string
		steps []runbatch.Runnable
	)

	if docker {
		steps = append(steps, step("stop docker", runbatch.RunOnSuccess, func(ctx context.Context) error {
			w.System.StopDocker(ctx)
			return nil
		}))
	}

	if all {
		steps = append(steps,
			step("save state", runbatch.RunOnSuccess, w.System.SaveState),
			step("dump sql", runbatch.RunOnSuccess, func(ctx context.Context) error {
				dumps = w.System.DumpSQL(ctx)
				return nil
			}),
		)
	}

	steps = append(steps,
		step("create archive", runbatch.RunOnSuccess, func(ctx context.Context) error {
			return w.Monitor.Stream(ctx, "BACKUP "+archive, c.CreateCommand(archive, w.Config.BackupExcludes(all)))
		}),
		step("archive info", runbatch.RunOnSuccess, func(ctx context.Context) error {
			return w.Info(ctx, archive)
		}),
		step("remove dumps", runbatch.RunOnAlways, func(ctx context.Context) error {
			w.System.RemoveDumps(ctx, dumps)
			return nil
		}),
	)

	if docker {
		steps = append(steps, step("start docker", runbatch.RunOnAlways, func(ctx context.Context) error {
			w.System.StartDocker(ctx)
			return nil
		}))
	}

	results := runbatch.NewSerialBatch("backup "+archive, steps...).Run(ctx)
	if !results.HasError() {
		return archive, nil
	}

	_ = runbatch.WriteResults(w.Out, results)

	ctxlog.Error(ctx, "backup failed", "archive", archive)

	return archive, errors.Join(ErrBackupFailed, results.Err())
}

func step(label string, runsOn runbatch.RunCondition, fn runbatch.FunctionCommandFunc) runbatch.Runnable {
	return runbatch.NewFunctionCommand(label, runsOn, fn)
}
