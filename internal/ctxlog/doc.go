// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger on a context.Context.
//
// The default logger is a pretty console handler writing to stderr. Standard
// output is reserved for command output and the live progress block, so
// nothing in this package ever writes to stdout.
//
// The level is read once from the environment. The variable name is derived
// from the executable: for "sysvault" it is SYSVAULT_LOG_LEVEL. Accepted values
// are DEBUG, INFO, WARN and ERROR; anything else means INFO.
package ctxlog
