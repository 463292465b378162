// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is a step of a batch: a command, a function or a nested batch.
type Runnable interface {
	// Run executes the step and returns its results.
	// It must honour context cancellation and pass signals on to any child process.
	Run(context.Context) Results
	// InheritEnv adds environment variables without overwriting ones already set.
	InheritEnv(map[string]string)
	// GetLabel returns the label of the step.
	GetLabel() string
	// GetParent returns the batch holding this step, if any.
	GetParent() Runnable
	// SetParent sets the batch holding this step.
	SetParent(Runnable)
	// ShouldRun decides whether the step runs given the batch state so far.
	ShouldRun(prev PreviousCommandStatus) ShouldRunAction
}

// PreviousCommandStatus is the state of the batch before a step runs.
type PreviousCommandStatus struct {
	// State is the result status of the batch so far. It stays at
	// ResultStatusError once any step has failed.
	State ResultStatus
	// ExitCode is the exit code of the previous step.
	ExitCode int
	// Err is the error from the previous step, if any.
	Err error
}
