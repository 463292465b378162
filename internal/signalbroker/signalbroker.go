// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker subscribes to the signals that should end a backup run.
//
// Every running child process gets its own subscription so the first signal
// can be forwarded to it, while Watch on the root context turns a second
// signal of the same type into a cancellation that kills the child outright.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New subscribes to sigs, or to SIGINT, SIGTERM and SIGQUIT when none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "subscribing to signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop ends the subscription made by New. The channel is not closed.
func Stop(ch chan os.Signal) {
	if ch == nil {
		return
	}

	signal.Stop(ch)
}
