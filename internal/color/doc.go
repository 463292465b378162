// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color answers two questions about the terminal sysvault writes to:
// is a given writer an interactive terminal, and should log output be coloured.
//
// Colour is decided once at start-up from the NO_COLOR and FORCE_COLOR
// environment variables, falling back to whether stderr (where logs go) is a
// terminal. Interactive detection uses golang.org/x/term.
package color
