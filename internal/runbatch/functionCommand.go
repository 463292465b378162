// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrFunctionCmdPanic is the error returned when a function command panics.
// It is constructed with the value that caused the panic.
type ErrFunctionCmdPanic struct {
	v any
}

// Error implements the error interface for ErrFunctionCmdPanic.
func (e *ErrFunctionCmdPanic) Error() string {
	prefix := "function command panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value when it was an error.
func (e *ErrFunctionCmdPanic) Unwrap() error {
	if err, ok := e.v.(error); ok {
		return err
	}

	return nil
}

var (
	// ErrSkipIntentional is returned by a step to skip the steps that run on success after it.
	ErrSkipIntentional = errors.New("intentionally skip execution")
	// ErrSkipOnError is recorded for steps not run because an earlier step failed.
	ErrSkipOnError = errors.New("skip execution due to previous error")
)

// NewErrFunctionCmdPanic creates a new ErrFunctionCmdPanic with the given value.
func NewErrFunctionCmdPanic(v any) error {
	return &ErrFunctionCmdPanic{v: v}
}

// FunctionCommandFunc is the work done by a FunctionCommand.
type FunctionCommandFunc func(ctx context.Context) error

// FunctionCommand is a step that runs a Go function.
type FunctionCommand struct {
	*BaseCommand
	Func FunctionCommandFunc // The function to run
}

// NewFunctionCommand returns a step running fn under the given condition.
func NewFunctionCommand(label string, runsOn RunCondition, fn FunctionCommandFunc) *FunctionCommand {
	return &FunctionCommand{
		BaseCommand: NewBaseCommand(label, "", runsOn, nil),
		Func:        fn,
	}
}

// Run implements the Runnable interface for FunctionCommand.
func (f *FunctionCommand) Run(ctx context.Context) Results {
	fullLabel := FullLabel(f)
	logger := ctxlog.Logger(ctx).
		With("runnableType", "functionCommand").
		With("label", fullLabel)

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return Results{{Label: f.GetLabel(), Status: ResultStatusSuccess}}
	}

	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("function command panicked", "panic", r)
				errCh <- NewErrFunctionCmdPanic(r)
			}
		}()

		logger.Debug("executing function command")

		errCh <- f.Func(ctx)
	}()

	var err error

	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	res := &Result{
		Label:  f.GetLabel(),
		Status: ResultStatusSuccess,
	}

	switch {
	case errors.Is(err, ErrSkipIntentional):
		res.Error = err
	case err != nil:
		res.ExitCode = -1
		res.Error = err
		res.Status = ResultStatusError
	}

	logger.Debug("function command completed", "status", res.Status.String(), "error", res.Error)

	return Results{res}
}
