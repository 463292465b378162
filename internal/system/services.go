// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package system

import (
	"context"
	"strings"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
)

const docker = "docker"

// DockerActive reports whether the docker unit is running.
func (s *System) DockerActive(ctx context.Context) bool {
	res := s.exec.Execute(ctx, runbatch.NewOSCommand("docker status", "systemctl", "is-active", "--quiet", docker))

	return res.Status == runbatch.ResultStatusSuccess
}

// StopDocker stops docker and waits for containers to settle.
func (s *System) StopDocker(ctx context.Context) {
	ctxlog.Info(ctx, "🐳 Docker stop...")
	s.run(ctx, elevated("docker stop", "systemctl", "stop", docker))
	s.sleep(ctx, dockerStopSettle)
}

// StartDocker starts docker and waits for it to come up.
func (s *System) StartDocker(ctx context.Context) {
	ctxlog.Info(ctx, "🐳 Docker start...")
	s.run(ctx, elevated("docker start", "systemctl", "start", docker))
	s.sleep(ctx, dockerStartSettle)
}

// EnabledUnits parses systemctl list-unit-files output and returns the units
// whose state column is "enabled".
func EnabledUnits(listing string) []string {
	var units []string

	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "enabled" {
			units = append(units, fields[0])
		}
	}

	return units
}
