// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerCursor writes readable markers into the session's own stream so
// tests can see cursor operations in order with the text.
type markerCursor struct {
	w io.Writer
}

func (c *markerCursor) MoveUp(rows int) { fmt.Fprintf(c.w, "<up:%d>", rows) }
func (c *markerCursor) ClearLine()      { io.WriteString(c.w, "<clr>") } //nolint:errcheck

func markers(w io.Writer) Cursor { return &markerCursor{w: w} }

func newInteractive(buf *bytes.Buffer, n int) *Session {
	return New(buf, WithTailLines(n), WithInteractive(true), WithCursor(markers))
}

func TestNew_ReservesBlockOnlyWhenInteractive(t *testing.T) {
	var tty, plain bytes.Buffer

	s := newInteractive(&tty, 5)
	assert.True(t, s.Interactive())
	assert.Equal(t, strings.Repeat("\n", 6), tty.String())

	p := New(&plain, WithTailLines(5), WithInteractive(false))
	assert.False(t, p.Interactive())
	assert.Empty(t, plain.String())
}

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf)
	assert.Equal(t, DefaultTailLines, s.Height())
	assert.False(t, s.Interactive(), "a bytes.Buffer is not a terminal")
	assert.Empty(t, buf.String())

	s = New(&buf, WithTailLines(0))
	assert.Equal(t, DefaultTailLines, s.Height())
}

func TestUpdate_InteractiveRedraw(t *testing.T) {
	var buf bytes.Buffer

	s := newInteractive(&buf, 2)
	buf.Reset()

	s.Update("hello\n")
	assert.Equal(t, "<up:3><clr>Progress: --%\n<clr>hello\n<clr>\n", buf.String())

	buf.Reset()
	s.Update("copying 42% done")
	assert.Equal(t, "<up:3><clr>Progress: 42%\n<clr>hello\n<clr>copying 42% done\n", buf.String())

	buf.Reset()
	s.Update("third")
	assert.Equal(t, "<up:3><clr>Progress: 42%\n<clr>copying 42% done\n<clr>third\n", buf.String())
}

func TestUpdate_EveryRedrawIsExactlyTheBlock(t *testing.T) {
	const n = 4

	var buf bytes.Buffer

	s := newInteractive(&buf, n)

	for i := range 20 {
		buf.Reset()
		s.Update(fmt.Sprintf("line %d\n", i))

		out := buf.String()
		assert.Equal(t, 1, strings.Count(out, "<up:"), "one cursor move per redraw")
		assert.Contains(t, out, fmt.Sprintf("<up:%d>", n+1))
		assert.Equal(t, n+1, strings.Count(out, "<clr>"))
		assert.Equal(t, n+1, strings.Count(out, "\n"))
		assert.True(t, strings.HasPrefix(out, "<up:5><clr>Progress: --%\n"))
	}
}

func TestUpdate_EmptyLineIsNoop(t *testing.T) {
	for _, interactive := range []bool{true, false} {
		t.Run(fmt.Sprintf("interactive=%v", interactive), func(t *testing.T) {
			var buf bytes.Buffer

			s := New(&buf, WithTailLines(3), WithInteractive(interactive), WithCursor(markers))
			s.Update("50% first\n")

			before := buf.String()
			tail := s.Tail()

			for _, raw := range []string{"", "\n", "\r\n", "\n\n"} {
				s.Update(raw)
			}

			assert.Equal(t, before, buf.String())
			assert.Equal(t, tail, s.Tail())

			p, ok := s.Progress()
			assert.True(t, ok)
			assert.Equal(t, "50", p)
		})
	}
}

func TestUpdate_PlainScenario(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf, WithTailLines(3), WithInteractive(false))

	s.Update("a")
	assert.Equal(t, "a\n", buf.String())

	s.Update("")
	assert.Equal(t, "a\n", buf.String())

	s.Update("b")
	assert.Equal(t, "a\nb\n", buf.String())
	assert.Equal(t, []string{"a", "b"}, s.Tail())
}

func TestUpdate_PlainNeverEmitsControlSequences(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf, WithTailLines(2), WithInteractive(false))
	long := strings.Repeat("y", 400)

	s.Update("10% step\n")
	s.Update(long + "\n")
	s.Update("tab\tseparated\r\n")

	assert.NotContains(t, buf.String(), "\x1b")
	assert.Equal(t, "10% step\n"+long+"\ntab\tseparated\n", buf.String(), "plain mode never truncates")
}

func TestUpdate_ScenarioFromProgressLines(t *testing.T) {
	input := []string{"10%", "process A", "20%", "process B", "process C", "process D", "process E", "process F"}

	for _, interactive := range []bool{true, false} {
		t.Run(fmt.Sprintf("interactive=%v", interactive), func(t *testing.T) {
			s := New(io.Discard, WithTailLines(5), WithInteractive(interactive), WithCursor(markers))

			for _, l := range input {
				s.Update(l)
			}

			assert.Equal(t, []string{"process B", "process C", "process D", "process E", "process F"}, s.Tail())

			p, ok := s.Progress()
			require.True(t, ok)
			assert.Equal(t, "20", p)
		})
	}
}

func TestUpdate_TruncatesToDisplayWidth(t *testing.T) {
	var buf bytes.Buffer

	s := newInteractive(&buf, 1)
	buf.Reset()

	s.Update(strings.Repeat("z", MaxLineWidth+40))

	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "<clr>"+strings.Repeat("z", MaxLineWidth), rows[1])
	assert.Equal(t, MaxLineWidth+40, len(s.Tail()[0]), "the buffer keeps the full line")
}

func TestUpdate_WhitespaceLineIsContent(t *testing.T) {
	s := New(io.Discard, WithTailLines(2), WithInteractive(false))

	s.Update("   \n")
	assert.Equal(t, []string{"   "}, s.Tail())
}

func TestUpdate_GarbledInput(t *testing.T) {
	var buf bytes.Buffer

	s := newInteractive(&buf, 2)

	assert.NotPanics(t, func() {
		s.Update("\xff\xfe broken 99%\n")
		s.Update("\x1b[31mred\x1b[0m\n")
	})

	p, _ := s.Progress()
	assert.Equal(t, "99", p)
	assert.Len(t, s.Tail(), 2)
}

func TestFinish_WritesNothingAndStopsUpdates(t *testing.T) {
	var buf bytes.Buffer

	s := newInteractive(&buf, 2)
	s.Update("one")

	before := buf.String()

	s.Finish()
	assert.Equal(t, before, buf.String())

	s.Update("after finish")
	assert.Equal(t, before, buf.String())
	assert.Equal(t, []string{"one"}, s.Tail())
}

func TestUpdate_TailMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 3, 5, 8} {
		s := New(io.Discard, WithTailLines(n), WithInteractive(false))

		var seen []string

		for i := range 200 {
			var line string
			if rng.Intn(4) != 0 {
				line = fmt.Sprintf("l%d", i)
			}

			s.Update(line + "\n")

			if line != "" {
				seen = append(seen, line)
			}

			want := seen
			if len(want) > n {
				want = want[len(want)-n:]
			}

			if len(want) == 0 {
				want = []string{}
			}

			require.Equal(t, want, s.Tail(), "n=%d after %d lines", n, i)
		}
	}
}
