// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"maps"
)

// BaseCommand holds what every step has. It is embedded in the step types.
type BaseCommand struct {
	Label           string            // Label shown in logs and summaries
	Cwd             string            // The working directory for the step
	RunsOnCondition RunCondition      // The condition under which the step runs
	Env             map[string]string // Environment variables added for the step
	parent          Runnable          // The batch holding this step, if any
}

// NewBaseCommand creates a new BaseCommand with the specified parameters.
func NewBaseCommand(label, cwd string, runsOn RunCondition, env map[string]string) *BaseCommand {
	if env == nil {
		env = make(map[string]string)
	}

	return &BaseCommand{
		Label:           label,
		Cwd:             cwd,
		RunsOnCondition: runsOn,
		Env:             env,
	}
}

// GetLabel returns the label of the step.
func (c *BaseCommand) GetLabel() string {
	if c == nil || c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetParent returns the parent for this step.
func (c *BaseCommand) GetParent() Runnable {
	return c.parent
}

// SetParent sets the parent for this step.
func (c *BaseCommand) SetParent(parent Runnable) {
	c.parent = parent
}

// InheritEnv sets additional environment variables for the step.
func (c *BaseCommand) InheritEnv(env map[string]string) {
	if len(c.Env) == 0 {
		c.Env = maps.Clone(env)
		return
	}

	for k, v := range maps.All(env) {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// ShouldRun checks if the step should run based on the batch state.
func (c *BaseCommand) ShouldRun(prev PreviousCommandStatus) ShouldRunAction {
	switch c.RunsOnCondition {
	case RunOnAlways:
		return ShouldRunActionRun
	case RunOnSuccess:
		if prev.State == ResultStatusError {
			return ShouldRunActionError
		}

		if errors.Is(prev.Err, ErrSkipIntentional) {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	case RunOnError:
		if prev.State != ResultStatusError {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	}

	return ShouldRunActionRun
}
