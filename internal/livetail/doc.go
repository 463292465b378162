// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package livetail draws the progress of a long running child process as a
// fixed block at the bottom of the terminal: one "Progress: NN%" row followed
// by the last N lines of output, redrawn in place for every new line.
//
// On an interactive terminal the block is reserved once, when the session is
// created, and every redraw moves the cursor back to its top, so the
// terminal never scrolls after that. On anything else (a pipe, a log file)
// lines are written through unchanged and no control sequences are emitted.
//
// A Session is a pure display transformation: it never fails and never
// rejects input. It is owned by one goroutine for the lifetime of one command.
package livetail
