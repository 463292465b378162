// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

import (
	"io"

	"github.com/charmbracelet/x/ansi"
)

// Cursor moves and clears on the stream the session draws to.
type Cursor interface {
	// MoveUp puts the cursor at the start of the line rows above the current one.
	MoveUp(rows int)
	// ClearLine erases the whole current line without moving the cursor.
	ClearLine()
}

// CursorFactory binds a Cursor to the writer the session draws with, so
// cursor movement and text stay in order.
type CursorFactory func(w io.Writer) Cursor

// ANSICursor implements Cursor with CSI sequences.
type ANSICursor struct {
	w io.Writer
}

// NewANSICursor is the default CursorFactory.
func NewANSICursor(w io.Writer) Cursor {
	return &ANSICursor{w: w}
}

// MoveUp writes CPL (cursor previous line).
func (c *ANSICursor) MoveUp(rows int) {
	if rows < 1 {
		return
	}

	_, _ = io.WriteString(c.w, ansi.CursorPreviousLine(rows))
}

// ClearLine writes EL 2 (erase entire line).
func (c *ANSICursor) ClearLine() {
	_, _ = io.WriteString(c.w, ansi.EraseEntireLine)
}
