// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package borg

import (
	"context"
	"errors"
	"maps"
	"strconv"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

// Executable is the borg binary looked up in PATH.
const Executable = "borg"

var (
	// ErrInitRepo is returned when a missing repository cannot be created.
	ErrInitRepo = errors.New("failed to initialise repository")
	// ErrListArchives is returned when the repository cannot be listed.
	ErrListArchives = errors.New("failed to list archives")
)

// Client runs borg against the repository named in its environment.
type Client struct {
	exec        runbatch.Executor
	env         map[string]string
	compression string
	encryption  string
}

// NewClient returns a client. compression and encryption are passed to
// borg create and borg init.
func NewClient(exec runbatch.Executor, env map[string]string, compression, encryption string) *Client {
	return &Client{
		exec:        exec,
		env:         maps.Clone(env),
		compression: compression,
		encryption:  encryption,
	}
}

// Env returns a copy of the borg environment.
func (c *Client) Env() map[string]string {
	return maps.Clone(c.env)
}

// Repo is the repository location.
func (c *Client) Repo() string {
	return c.env[EnvRepo]
}

// Command returns a borg command with the client environment.
func (c *Client) Command(label string, args ...string) *runbatch.OSCommand {
	cmd := runbatch.NewOSCommand(label, Executable, args...)
	cmd.Env = maps.Clone(c.env)

	return cmd
}

// EnsureRepo creates the repository when listing it fails, and reports
// whether it did.
func (c *Client) EnsureRepo(ctx context.Context) (bool, error) {
	if res := c.exec.Execute(ctx, c.Command("borg list", "list")); res.Status == runbatch.ResultStatusSuccess {
		return false, nil
	}

	ctxlog.Info(ctx, "➕ Init...", "repo", c.Repo(), "encryption", c.encryption)

	init := c.Command("borg init", "init", "--encryption", c.encryption)
	init.PassThrough = true

	if res := c.exec.Execute(ctx, init); res.Status != runbatch.ResultStatusSuccess {
		return false, errors.Join(ErrInitRepo, res.Error)
	}

	return true, nil
}

// ListArchives returns the archives in the repository, oldest first.
func (c *Client) ListArchives(ctx context.Context) ([]Archive, error) {
	res := c.exec.Execute(ctx, c.Command("borg list", "list", "--format", ListFormat))
	if res.Status != runbatch.ResultStatusSuccess {
		return nil, errors.Join(ErrListArchives, res.Error)
	}

	return ParseArchives(string(res.Output)), nil
}

// CreateCommand backs up / into archive name.
func (c *Client) CreateCommand(name string, excludes []string) *runbatch.OSCommand {
	args := []string{
		"create", "::" + name, "/",
		"--stats", "--progress",
		"--compression", c.compression,
		"--exclude-caches",
	}

	return c.Command("borg create", append(args, ExcludeArgs(excludes)...)...)
}

// ExtractCommand restores archive name into target. It runs as root with
// the borg environment preserved.
func (c *Client) ExtractCommand(name, target string, excludes []string) *runbatch.OSCommand {
	args := []string{"extract", "::" + name, "--list", "--progress"}

	cmd := c.Command("borg extract", append(args, ExcludeArgs(excludes)...)...)
	cmd.Cwd = target
	cmd.Elevate = true
	cmd.PreserveEnv = true

	return cmd
}

// InfoCommand shows archive statistics.
func (c *Client) InfoCommand(name string) *runbatch.OSCommand {
	return c.Command("borg info", "info", "::"+name)
}

// ListLastCommand lists the last n entries of an archive.
func (c *Client) ListLastCommand(name string, n int) *runbatch.OSCommand {
	return c.Command("borg list", "list", "::"+name, "--last", strconv.Itoa(n))
}

// DeleteAllCommand deletes every archive in the repository.
func (c *Client) DeleteAllCommand() *runbatch.OSCommand {
	return c.Command("borg delete", "delete", "--progress", "--stats", "--glob-archives", "*")
}

// CompactCommand frees the space of deleted archives.
func (c *Client) CompactCommand() *runbatch.OSCommand {
	return c.Command("borg compact", "compact")
}

// ExcludeArgs turns patterns into --exclude arguments.
func ExcludeArgs(patterns []string) []string {
	out := make([]string, 0, 2*len(patterns))
	for _, p := range patterns {
		out = append(out, "--exclude", p)
	}

	return out
}
