// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bufio"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrain_SplitsLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "borg progress redraws",
			input: "1.0% Extracting\r50.0% Extracting\r99.9% Extracting\rdone\n",
			want:  []string{"1.0% Extracting", "50.0% Extracting", "99.9% Extracting", "done"},
		},
		{name: "newlines", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf is one terminator", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "unterminated tail", input: "a\nb", want: []string{"a", "b"}},
		{name: "trailing carriage return", input: "a\r", want: []string{"a"}},
		{name: "empty lines kept", input: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "empty input", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string

			require.NoError(t, drain(strings.NewReader(tt.input), func(l string) { got = append(got, l) }))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrain_CRLFAcrossReads(t *testing.T) {
	var got []string

	r := iotest.OneByteReader(strings.NewReader("50%\r\n60%\r70%\n"))

	require.NoError(t, drain(r, func(l string) { got = append(got, l) }))
	assert.Equal(t, []string{"50%", "60%", "70%"}, got)
}

func TestDrain_LongLineIsSplitAtCap(t *testing.T) {
	long := strings.Repeat("x", maxLineLength+10)

	var got []string

	require.NoError(t, drain(strings.NewReader(long+"\nend\n"), func(l string) { got = append(got, l) }))
	require.Len(t, got, 3)
	assert.Len(t, got[0], maxLineLength)
	assert.Equal(t, strings.Repeat("x", 10), got[1])
	assert.Equal(t, "end", got[2])
}

func TestScanLines_WaitsForLineFeedAfterCarriageReturn(t *testing.T) {
	advance, token, err := scanLines([]byte("50%\r"), false)
	require.NoError(t, err)
	assert.Zero(t, advance)
	assert.Nil(t, token)

	advance, token, err = scanLines([]byte("50%\r"), true)
	require.NoError(t, err)
	assert.Equal(t, 4, advance)
	assert.Equal(t, "50%", string(token))
}

var _ bufio.SplitFunc = scanLines
