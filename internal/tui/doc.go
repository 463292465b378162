// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui renders archive listings and provides an interactive archive
// picker for restores. The listing is a static lipgloss table; the picker is a
// small bubbletea program built on the bubbles table, started with the cursor
// on the newest archive.
package tui
