// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailBuffer(t *testing.T) {
	b := NewTailBuffer(3)
	assert.Equal(t, 3, b.Cap())
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Lines())

	for _, l := range []string{"a", "b", "c", "d", "e"} {
		b.Append(l)
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"c", "d", "e"}, b.Lines())

	lines := b.Lines()
	lines[0] = "mutated"
	assert.Equal(t, "c", b.Lines()[0], "Lines returns a copy")
}

func TestTailBuffer_MinimumCapacity(t *testing.T) {
	b := NewTailBuffer(0)
	b.Append("x")
	b.Append("y")

	assert.Equal(t, 1, b.Cap())
	assert.Equal(t, []string{"y"}, b.Lines())
}

func TestProgressState(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		wantSet bool
	}{
		{name: "unset shows placeholder", lines: []string{"no numbers"}, want: Placeholder},
		{name: "simple", lines: []string{"12%"}, want: "12", wantSet: true},
		{name: "hundred", lines: []string{"100% complete"}, want: "100", wantSet: true},
		{name: "first match in line", lines: []string{"3% of 40%"}, want: "3", wantSet: true},
		{name: "four digits keeps last three", lines: []string{"1234%"}, want: "234", wantSet: true},
		{name: "space before percent is not a match", lines: []string{"5 %"}, want: Placeholder},
		{name: "persists across plain lines", lines: []string{"7%", "plain", "also plain"}, want: "7", wantSet: true},
		{name: "overwritten by newer value", lines: []string{"90%", "x", "15%"}, want: "15", wantSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProgressState

			for _, l := range tt.lines {
				p.Observe(l)
			}

			assert.Equal(t, tt.want, p.String())

			_, set := p.Value()
			assert.Equal(t, tt.wantSet, set)
		})
	}
}

func TestANSICursor(t *testing.T) {
	var sb strings.Builder

	c := NewANSICursor(&sb)
	c.MoveUp(6)
	c.ClearLine()
	c.MoveUp(0)

	assert.Equal(t, "\x1b[6F\x1b[2K", sb.String())
}
