// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatchtest provides a recording runbatch.Executor for tests.
package runbatchtest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

// Response is what a matched command produces.
type Response struct {
	ExitCode int
	Output   string
	Err      error
}

// Recorder records every command it is asked to run and answers from a table
// of responses keyed by command line prefix. Unmatched commands succeed with
// no output.
type Recorder struct {
	mu        sync.Mutex
	calls     []*runbatch.OSCommand
	responses []prefixResponse
}

type prefixResponse struct {
	prefix string
	resp   Response
}

// On registers resp for commands whose line starts with prefix. Later
// registrations win over earlier ones.
func (r *Recorder) On(prefix string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.responses = append(r.responses, prefixResponse{prefix: prefix, resp: resp})

	return r
}

// Execute implements runbatch.Executor.
func (r *Recorder) Execute(_ context.Context, cmd *runbatch.OSCommand) *runbatch.Result {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	resp := r.lookup(Line(cmd))
	r.mu.Unlock()

	res := &runbatch.Result{
		Label:    cmd.GetLabel(),
		ExitCode: resp.ExitCode,
		Status:   runbatch.ResultStatusSuccess,
		Output:   []byte(resp.Output),
	}

	for _, line := range strings.SplitAfter(resp.Output, "\n") {
		if line == "" {
			continue
		}

		if cmd.LineSink != nil {
			cmd.LineSink(line)
		}

		if t := strings.TrimSpace(line); t != "" {
			res.LastLine = strings.TrimRight(line, "\r\n")
		}
	}

	switch {
	case resp.Err != nil:
		res.Error = resp.Err
		res.Status = runbatch.ResultStatusError
	case resp.ExitCode != 0:
		res.Error = fmt.Errorf("%w: %d", runbatch.ErrNonZeroExitCode, resp.ExitCode)
		res.Status = runbatch.ResultStatusError
	}

	return res
}

func (r *Recorder) lookup(line string) Response {
	for _, pr := range slices.Backward(r.responses) {
		if strings.HasPrefix(line, pr.prefix) {
			return pr.resp
		}
	}

	return Response{}
}

// Calls returns the commands run so far.
func (r *Recorder) Calls() []*runbatch.OSCommand {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.calls)
}

// Lines returns the command lines run so far.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))

	for _, c := range calls {
		out = append(out, Line(c))
	}

	return out
}

// Line renders cmd as a space separated command line, prefixed by "sudo "
// when the command is elevated.
func Line(cmd *runbatch.OSCommand) string {
	parts := make([]string, 0, len(cmd.Args)+2)

	if cmd.Elevate {
		parts = append(parts, "sudo")
	}

	parts = append(parts, cmd.Path)
	parts = append(parts, cmd.Args...)

	return strings.Join(parts, " ")
}
