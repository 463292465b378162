// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// LastLineTeeReader is an io.Reader that records what passes through it.
// It is safe for concurrent use: one goroutine reads while others query.
type LastLineTeeReader struct {
	reader    io.Reader
	kept      bytes.Buffer
	maxKeep   int
	truncated bool
	lastLine  string
	partial   strings.Builder
	mu        sync.RWMutex
}

// NewLastLineTeeReader wraps r. At most maxKeep bytes are kept; zero or less
// means nothing is kept and only the last line is tracked.
func NewLastLineTeeReader(r io.Reader, maxKeep int) *LastLineTeeReader {
	return &LastLineTeeReader{
		reader:  r,
		maxKeep: maxKeep,
	}
}

// Read implements io.Reader.
func (lt *LastLineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		lt.keep(p[:n])
		lt.track(p[:n])
		lt.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

func (lt *LastLineTeeReader) keep(b []byte) {
	room := lt.maxKeep - lt.kept.Len()
	if room <= 0 {
		lt.truncated = lt.truncated || lt.maxKeep > 0
		return
	}

	if len(b) > room {
		b = b[:room]
		lt.truncated = true
	}

	lt.kept.Write(b)
}

func (lt *LastLineTeeReader) track(b []byte) {
	for len(b) > 0 {
		i := bytes.IndexAny(b, "\r\n")
		if i < 0 {
			lt.partial.Write(b)
			return
		}

		lt.partial.Write(b[:i])

		if line := lt.partial.String(); strings.TrimSpace(line) != "" {
			lt.lastLine = line
		}

		lt.partial.Reset()
		b = b[i+1:]
	}
}

// LastLine returns the last non-empty complete line, or the pending partial
// line when the stream ended without a terminator. If maxLength > 3 and the
// line is longer, it is cut and suffixed with "...".
func (lt *LastLineTeeReader) LastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	line := lt.lastLine
	if p := lt.partial.String(); strings.TrimSpace(p) != "" {
		line = p
	}

	if maxLength > 3 && len(line) > maxLength {
		line = line[:maxLength-3] + "..."
	}

	return line
}

// Bytes returns a copy of the kept output.
func (lt *LastLineTeeReader) Bytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return bytes.Clone(lt.kept.Bytes())
}

// Truncated reports whether output beyond the keep limit was dropped.
func (lt *LastLineTeeReader) Truncated() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.truncated
}
