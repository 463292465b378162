// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "context"

// Executor runs a single OS command. Orchestration code depends on this
// rather than on OSCommand.Run so tests can record commands instead.
type Executor interface {
	Execute(ctx context.Context, cmd *OSCommand) *Result
}

// OSExecutor runs commands as real processes.
type OSExecutor struct{}

var _ Executor = OSExecutor{}

// Execute implements Executor.
func (OSExecutor) Execute(ctx context.Context, cmd *OSCommand) *Result {
	return cmd.Run(ctx)[0]
}
