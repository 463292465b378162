// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader wraps a child process output pipe so that everything read
// through it is also kept (up to a byte limit), together with the last
// non-empty complete line. The last line is what a failure message quotes;
// the kept output is what goes to the log file.
package teereader
