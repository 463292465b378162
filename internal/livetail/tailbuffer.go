// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

// TailBuffer keeps the most recent lines in arrival order. Appending to a
// full buffer evicts the oldest line.
type TailBuffer struct {
	lines []string
	start int
	size  int
}

// NewTailBuffer returns a buffer holding at most capacity lines. A capacity
// below one is raised to one.
func NewTailBuffer(capacity int) *TailBuffer {
	if capacity < 1 {
		capacity = 1
	}

	return &TailBuffer{lines: make([]string, capacity)}
}

// Append adds line as the newest entry.
func (b *TailBuffer) Append(line string) {
	capacity := len(b.lines)

	if b.size < capacity {
		b.lines[(b.start+b.size)%capacity] = line
		b.size++

		return
	}

	b.lines[b.start] = line
	b.start = (b.start + 1) % capacity
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *TailBuffer) Lines() []string {
	out := make([]string, b.size)
	for i := range b.size {
		out[i] = b.lines[(b.start+i)%len(b.lines)]
	}

	return out
}

// Len is the number of buffered lines.
func (b *TailBuffer) Len() int {
	return b.size
}

// Cap is the maximum number of buffered lines.
func (b *TailBuffer) Cap() int {
	return len(b.lines)
}
