// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

// RunCondition defines when a step runs, given how the batch has gone so far.
type RunCondition int

const (
	// RunOnSuccess means the step runs only while no earlier step has failed.
	RunOnSuccess RunCondition = iota
	// RunOnError means the step runs only after an earlier step has failed.
	RunOnError
	// RunOnAlways means the step always runs. Used for cleanup.
	RunOnAlways
)

const (
	runOnSuccessStr = "success"
	runOnErrorStr   = "error"
	runOnAlwaysStr  = "always"
	runOnUnknownStr = "unknown"
)

var (
	// ErrRunConditionUnknown is returned when an unknown RunCondition value is encountered.
	ErrRunConditionUnknown = errors.New("unknown RunCondition value")
)

// String returns the string representation of the RunCondition.
func (r RunCondition) String() string {
	switch r {
	case RunOnSuccess:
		return runOnSuccessStr
	case RunOnError:
		return runOnErrorStr
	case RunOnAlways:
		return runOnAlwaysStr
	default:
		return runOnUnknownStr
	}
}

// NewRunCondition creates a RunCondition from a string.
func NewRunCondition(s string) (RunCondition, error) {
	switch s {
	case runOnSuccessStr, "":
		return RunOnSuccess, nil
	case runOnErrorStr:
		return RunOnError, nil
	case runOnAlwaysStr:
		return RunOnAlways, nil
	default:
		return RunCondition(-1), ErrRunConditionUnknown
	}
}
