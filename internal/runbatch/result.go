// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// ErrResultChildrenHasError is set on a batch result when any child failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus is the outcome of a step.
type ResultStatus int

const (
	// ResultStatusSuccess means the step completed.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means the step failed or could not start.
	ResultStatusError
	// ResultStatusSkipped means the step was not run.
	ResultStatusSkipped
	// ResultStatusUnknown is used while a process is still being assessed.
	ResultStatusUnknown
)

// String returns a lowercase name for the status.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result represents the outcome of running a step or batch.
type Result struct {
	Label    string       // Label of the step or batch
	ExitCode int          // Exit code of the process, -1 when it could not run to completion
	Status   ResultStatus // Outcome
	Error    error        // Error, if any
	Output   []byte       // Captured combined output, bounded
	LastLine string       // Last non-empty output line
	Children Results      // Nested results for batches
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result, or any nested result, failed.
// Skipped steps are not failures.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Err collects the errors of every failed leaf result. It returns nil when
// nothing failed.
func (r Results) Err() error {
	var merr *multierror.Error

	for v := range slices.Values(r) {
		if len(v.Children) > 0 {
			if err := v.Children.Err(); err != nil {
				merr = multierror.Append(merr, err)
			}

			continue
		}

		if v.Status == ResultStatusError && v.Error != nil {
			merr = multierror.Append(merr, v.Error)
		}
	}

	return merr.ErrorOrNil()
}
