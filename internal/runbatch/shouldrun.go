// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// ShouldRunAction defines the action to take based on the result of a step's pre-check.
type ShouldRunAction int

const (
	// ShouldRunActionRun means run the step.
	ShouldRunActionRun ShouldRunAction = iota
	// ShouldRunActionSkip means skip the step, not counted as a failure.
	ShouldRunActionSkip
	// ShouldRunActionError means skip the step because an earlier one failed.
	ShouldRunActionError
)
