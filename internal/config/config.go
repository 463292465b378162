// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"slices"
)

const (
	// DefaultStateDir is where package, service and crontab state is saved.
	DefaultStateDir = "/root/.sysvault"
	// DefaultDumpDir is where SQL dumps are written before the archive is made.
	DefaultDumpDir = "/tmp"
	// DefaultTailLines is the height of the live tail.
	DefaultTailLines = 5
	// DefaultCompression is passed to borg create.
	DefaultCompression = "zstd,6"
	// DefaultEncryption is used when a repository is initialised.
	DefaultEncryption = "repokey-blake2"
	// DefaultTarget is the directory a restore extracts into.
	DefaultTarget = "/"
)

var (
	// ErrRepoRequired is returned when no repository is configured.
	ErrRepoRequired = errors.New("a repository is required, use --repo or set BORG_REPO")
	// ErrKeyRequired is returned when no SSH key is configured.
	ErrKeyRequired = errors.New("an SSH key is required, use --key")
	// ErrTailLines is returned for a tail height below one.
	ErrTailLines = errors.New("tail lines must be at least 1")
)

// Excludes are borg exclude patterns.
type Excludes struct {
	// Base is always excluded from a backup.
	Base []string
	// Identity is also excluded from a full-system backup, so a restore
	// onto another machine keeps that machine's identity.
	Identity []string
	// Restore is excluded when extracting.
	Restore []string
}

// Config is the resolved configuration of one run.
type Config struct {
	Repo        string
	KeyPath     string
	Passphrase  string
	StateDir    string
	DumpDir     string
	LogFile     string
	TailLines   int
	Live        bool
	Compression string
	Encryption  string
	Packages    []string
	Excludes    Excludes
}

var (
	defaultPackages = []string{"borgbackup", "parted", "dosfstools", "e2fsprogs"}

	defaultBaseExcludes = []string{
		"/dev/**", "/proc/**", "/sys/**", "/run/**", "/tmp/**",
		"/mnt/**", "/media/**", "/lost+found",
		"/var/cache/apt/archives/**",
		"/swapfile", "/swap.img",
	}

	defaultIdentityExcludes = []string{
		"/etc/machine-id", "/var/lib/dbus/machine-id",
		"/etc/hostname", "/etc/hosts", "/etc/fstab",
		"/etc/ssh/ssh_host_*", "/etc/netplan/**",
		"/etc/network/interfaces*",
		"/etc/udev/rules.d/70-persistent-net.rules",
		"/var/tmp/systemd-private-*/**", "/tmp/systemd-private-*/**",
		"**/*.log", "/var/log/**", "/var/tmp/*.log",
		"/var/log/journal/**", "/run/log/**",
		"/var/cache/**", "/tmp/**",
		"**/__pycache__/**", "**/.cache/**",
		"**/*.pid", "**/*.sock",
		"/run/**",
		"/var/lib/dpkg/lock*",
		"/var/lib/apt/lists/lock",
	}

	// Restore patterns are relative: borg extract matches archive paths without the leading slash.
	defaultRestoreExcludes = []string{
		"etc/machine-id",
		"var/lib/dbus/machine-id",
		"etc/fstab",
		"etc/ssh/ssh_host_*",
		"etc/hostname",
		"etc/netplan",
	}
)

// Defaults returns the built-in configuration. Slices are fresh copies.
func Defaults() Config {
	return Config{
		StateDir:    DefaultStateDir,
		DumpDir:     DefaultDumpDir,
		TailLines:   DefaultTailLines,
		Live:        true,
		Compression: DefaultCompression,
		Encryption:  DefaultEncryption,
		Packages:    slices.Clone(defaultPackages),
		Excludes: Excludes{
			Base:     slices.Clone(defaultBaseExcludes),
			Identity: slices.Clone(defaultIdentityExcludes),
			Restore:  slices.Clone(defaultRestoreExcludes),
		},
	}
}

// BackupExcludes returns the patterns for borg create.
func (c Config) BackupExcludes(all bool) []string {
	if !all {
		return slices.Clone(c.Excludes.Base)
	}

	return slices.Concat(c.Excludes.Base, c.Excludes.Identity)
}

// Validate checks the settings every operation needs.
func (c Config) Validate() error {
	var errs []error

	if c.Repo == "" {
		errs = append(errs, ErrRepoRequired)
	}

	if c.KeyPath == "" {
		errs = append(errs, ErrKeyRequired)
	}

	if c.TailLines < 1 {
		errs = append(errs, ErrTailLines)
	}

	return errors.Join(errs...)
}

// Overrides are values given on the command line. Nil fields were not given.
type Overrides struct {
	Repo       *string
	KeyPath    *string
	Passphrase *string
	StateDir   *string
	LogFile    *string
	TailLines  *int
	NoLive     *bool
}

// Apply sets every given override on c.
func (c *Config) Apply(o Overrides) {
	setIf(&c.Repo, o.Repo)
	setIf(&c.KeyPath, o.KeyPath)
	setIf(&c.Passphrase, o.Passphrase)
	setIf(&c.StateDir, o.StateDir)
	setIf(&c.LogFile, o.LogFile)
	setIf(&c.TailLines, o.TailLines)

	if o.NoLive != nil {
		c.Live = !*o.NoLive
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
