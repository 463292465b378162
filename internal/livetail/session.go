// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/matt-FFFFFF/sysvault/internal/color"
)

const (
	// DefaultTailLines is the number of output lines shown under the progress row.
	DefaultTailLines = 5
	// MaxLineWidth is the display width tail lines are cut to.
	MaxLineWidth = 160

	progressPrefix = "Progress: "
)

// Session is one live render of one command's output.
type Session struct {
	out         *bufio.Writer
	cursor      Cursor
	tail        *TailBuffer
	progress    ProgressState
	height      int
	interactive bool
	finished    bool
}

type options struct {
	height      int
	interactive *bool
	cursor      CursorFactory
}

// Option configures a Session.
type Option func(*options)

// WithTailLines sets how many output lines are shown. Values below one mean DefaultTailLines.
func WithTailLines(n int) Option {
	return func(o *options) {
		o.height = n
	}
}

// WithInteractive overrides terminal detection on the destination.
func WithInteractive(v bool) Option {
	return func(o *options) {
		o.interactive = &v
	}
}

// WithCursor replaces the ANSI cursor, for terminals without CSI support or for tests.
func WithCursor(f CursorFactory) Option {
	return func(o *options) {
		o.cursor = f
	}
}

// New starts a session drawing to out. When out is interactive the block of
// tail lines plus one progress row is reserved immediately.
func New(out io.Writer, opts ...Option) *Session {
	o := options{height: DefaultTailLines, cursor: NewANSICursor}
	for _, opt := range opts {
		opt(&o)
	}

	if o.height < 1 {
		o.height = DefaultTailLines
	}

	interactive := color.IsTerminal(out)
	if o.interactive != nil {
		interactive = *o.interactive
	}

	bw := bufio.NewWriter(out)
	s := &Session{
		out:         bw,
		cursor:      o.cursor(bw),
		tail:        NewTailBuffer(o.height),
		height:      o.height,
		interactive: interactive,
	}

	if s.interactive {
		_, _ = bw.WriteString(strings.Repeat("\n", s.rows()))
		_ = bw.Flush()
	}

	return s
}

// Update consumes one line of output. The trailing line terminator is
// removed; an empty result is ignored.
func (s *Session) Update(raw string) {
	if s.finished {
		return
	}

	line := strings.TrimRight(raw, "\r\n")
	if line == "" {
		return
	}

	s.progress.Observe(line)
	s.tail.Append(line)

	if !s.interactive {
		_, _ = s.out.WriteString(line)
		_ = s.out.WriteByte('\n')
		_ = s.out.Flush()

		return
	}

	s.redraw()
}

// Finish ends the session. Nothing is written: the block stays as last drawn
// and the cursor stays below it.
func (s *Session) Finish() {
	s.finished = true
}

// Tail returns the buffered lines, oldest first.
func (s *Session) Tail() []string {
	return s.tail.Lines()
}

// Progress returns the last percentage seen and whether there was one.
func (s *Session) Progress() (string, bool) {
	return s.progress.Value()
}

// Interactive reports whether the session draws in place.
func (s *Session) Interactive() bool {
	return s.interactive
}

// Height is the number of tail lines shown.
func (s *Session) Height() int {
	return s.height
}

func (s *Session) rows() int {
	return s.height + 1
}

func (s *Session) redraw() {
	s.cursor.MoveUp(s.rows())

	s.cursor.ClearLine()
	_, _ = s.out.WriteString(progressPrefix + s.progress.String() + "%\n")

	lines := s.tail.Lines()
	for i := range s.height {
		s.cursor.ClearLine()

		if i < len(lines) {
			_, _ = s.out.WriteString(ansi.Truncate(lines[i], MaxLineWidth, ""))
		}

		_ = s.out.WriteByte('\n')
	}

	_ = s.out.Flush()
}
