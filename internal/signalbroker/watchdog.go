// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
)

// Watch reads sigCh until it is closed. The first signal of each type is only
// logged; the second one closes sigCh and calls cancel.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "second signal received, terminating", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Warn(ctx, "signal received, forwarding to running command; repeat to force termination",
			"signal", sig.String())

		seen[sig] = struct{}{}
	}
}
