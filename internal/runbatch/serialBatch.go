// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"slices"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch runs its steps one after another.
type SerialBatch struct {
	*BaseCommand
	Commands []Runnable // The steps or nested batches to run
}

// NewSerialBatch returns a batch of steps that itself runs on success.
func NewSerialBatch(label string, commands ...Runnable) *SerialBatch {
	b := &SerialBatch{
		BaseCommand: NewBaseCommand(label, "", RunOnSuccess, nil),
		Commands:    commands,
	}

	for _, c := range commands {
		c.SetParent(b)
	}

	return b
}

// Run implements the Runnable interface for SerialBatch.
//
// A failure is sticky: once any step fails, every later step that runs on
// success is skipped with ErrSkipOnError. Steps marked RunOnAlways still run.
func (b *SerialBatch) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).With("runnableType", "SerialBatch").With("label", b.GetLabel())
	results := make(Results, 0, len(b.Commands))

	prevState := PreviousCommandStatus{
		State: ResultStatusSuccess,
	}

	for _, cmd := range slices.All(b.Commands) {
		if cmd.GetParent() == nil {
			cmd.SetParent(b)
		}

		cmd.InheritEnv(b.Env)

		switch cmd.ShouldRun(prevState) {
		case ShouldRunActionSkip:
			results = append(results, &Result{
				Label:  cmd.GetLabel(),
				Status: ResultStatusSkipped,
				Error:  ErrSkipIntentional,
			})

			continue
		case ShouldRunActionError:
			results = append(results, &Result{
				Label:  cmd.GetLabel(),
				Status: ResultStatusSkipped,
				Error:  ErrSkipOnError,
			})

			continue
		}

		logger.Debug("running step", "step", cmd.GetLabel())

		childResults := cmd.Run(ctx)
		results = slices.Concat(results, childResults)

		if len(childResults) == 0 {
			continue
		}

		last := childResults[0]

		prevState.ExitCode = last.ExitCode
		prevState.Err = last.Error

		if last.Status == ResultStatusError {
			prevState.State = ResultStatusError
		}
	}

	res := &Result{
		Label:    b.GetLabel(),
		Status:   ResultStatusSuccess,
		Children: results,
	}

	if results.HasError() {
		res.ExitCode = -1
		res.Status = ResultStatusError
		res.Error = errors.Join(ErrResultChildrenHasError, results.Err())
	}

	return Results{res}
}
