// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "bytes"

// maxLineLength caps a single line handed to a LineSink. Longer runs without
// a terminator are split at the cap.
const maxLineLength = 64 * 1024

// scanLines is a bufio.SplitFunc that ends a line at "\n", "\r\n" or a lone
// "\r". Progress meters redraw with "\r", so each redraw becomes its own line.
// Terminators are not part of the returned token.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data), atEOF, len(data) >= maxLineLength:
			return i + 1, data[:i], nil
		}

		// A "\r" at the end of the buffer may be the first half of "\r\n".
		return 0, nil, nil
	}

	if len(data) >= maxLineLength {
		return maxLineLength, data[:maxLineLength], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
