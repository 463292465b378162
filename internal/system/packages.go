// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package system

import (
	"context"
	"strings"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

// MissingPackages returns the packages dpkg does not list as installed.
func (s *System) MissingPackages(ctx context.Context, pkgs []string) []string {
	var missing []string

	for _, pkg := range pkgs {
		res := s.exec.Execute(ctx, runbatch.NewOSCommand("dpkg -l", "dpkg", "-l", pkg))
		if !strings.Contains(string(res.Output), "ii") {
			missing = append(missing, pkg)
		}
	}

	return missing
}

// EnsurePackages installs whichever of pkgs are missing. Installation is
// best effort: failures are logged and the run continues.
func (s *System) EnsurePackages(ctx context.Context, pkgs []string) {
	ctxlog.Info(ctx, "🔧 Dependencies...")

	if missing := s.MissingPackages(ctx, pkgs); len(missing) > 0 {
		ctxlog.Info(ctx, "📦 "+strings.Join(missing, ", "))

		update := elevated("apt update", "apt", "update")
		update.PassThrough = true
		s.run(ctx, update)

		install := elevated("apt install", "apt", append([]string{"install", "-y"}, missing...)...)
		install.PassThrough = true
		s.run(ctx, install)
	}

	ctxlog.Info(ctx, "✅ Ready")
}
