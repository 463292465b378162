// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package system

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// PackagesFile holds dpkg --get-selections output.
	PackagesFile = "packages.list"
	// ServicesFile holds the enabled unit files.
	ServicesFile = "services.list"
	// CrontabFile holds the crontab of the invoking user.
	CrontabFile  = "crontab.backup"

	vsockDevice  = "/dev/vsock"
	stateDirMode = 0o700
)

// ErrStateDir is returned when the state directory cannot be created.
var ErrStateDir = errors.New("could not create state directory")

// StateFile returns the path of a state file.
func (s *System) StateFile(name string) string {
	return filepath.Join(s.stateDir, name)
}

// SaveState records installed packages, enabled units and the crontab in
// the state directory so they are part of the archive. Each recording is
// best effort.
func (s *System) SaveState(ctx context.Context) error {
	ctxlog.Info(ctx, "📋 State save...")

	if err := s.fs.MkdirAll(s.stateDir, stateDirMode); err != nil {
		return errors.Join(ErrStateDir, err)
	}

	selections := runbatch.NewOSCommand("dpkg selections", "dpkg", "--get-selections")
	selections.StdoutFile = s.StateFile(PackagesFile)
	s.run(ctx, selections)

	units := runbatch.NewOSCommand("enabled units", "systemctl", "list-unit-files", "--state=enabled")
	units.StdoutFile = s.StateFile(ServicesFile)
	s.run(ctx, units)

	// crontab -l fails when there is no crontab; its stderr is captured and dropped.
	cron := runbatch.NewOSCommand("crontab", "crontab", "-l")
	cron.StdoutFile = s.StateFile(CrontabFile)
	s.exec.Execute(ctx, cron)

	return nil
}

// RestoreState reapplies what SaveState recorded, for each state file present.
func (s *System) RestoreState(ctx context.Context) error {
	ctxlog.Info(ctx, "🔧 State restore...")

	var merr *multierror.Error

	fail := func(res *runbatch.Result, ok bool) {
		if !ok {
			merr = multierror.Append(merr, res.Error)
		}
	}

	if pkgs := s.StateFile(PackagesFile); s.exists(pkgs) {
		set := elevated("dpkg set selections", "dpkg", "--set-selections")
		set.StdinFile = pkgs
		fail(s.run(ctx, set))

		upgrade := elevated("apt-get dselect-upgrade", "apt-get", "dselect-upgrade", "-y")
		upgrade.PassThrough = true
		s.run(ctx, upgrade)
	}

	if svc := s.StateFile(ServicesFile); s.exists(svc) {
		fail(s.run(ctx, elevated("daemon reload", "systemctl", "daemon-reload")))

		listing, err := afero.ReadFile(s.fs, svc)
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		for _, unit := range EnabledUnits(string(listing)) {
			s.run(ctx, elevated("enable "+unit, "systemctl", "enable", unit))
		}
	}

	if cron := s.StateFile(CrontabFile); s.exists(cron) {
		fail(s.run(ctx, runbatch.NewOSCommand("crontab restore", "crontab", cron)))
	}

	return merr.ErrorOrNil()
}

// FixLXDAgent installs and starts the LXD guest agent when running inside an
// LXD virtual machine, since a restored system may lack it.
func (s *System) FixLXDAgent(ctx context.Context) {
	if !s.exists(vsockDevice) {
		return
	}

	ctxlog.Info(ctx, "🖥️ LXD fix...")

	install := elevated("install lxd-agent-loader", "apt-get", "install", "-y", "lxd-agent-loader")
	install.PassThrough = true
	s.run(ctx, install)
	s.run(ctx, elevated("start lxd-agent", "systemctl", "start", "lxd-agent"))
}

func (s *System) exists(path string) bool {
	ok, _ := afero.Exists(s.fs, path)
	return ok
}
