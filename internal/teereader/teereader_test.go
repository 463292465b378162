// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLineTeeReader_LastLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single terminated line", input: "hello world\n", want: "hello world"},
		{name: "unterminated tail wins", input: "line1\nline2", want: "line2"},
		{name: "trailing blank lines ignored", input: "done\n\n   \n", want: "done"},
		{name: "crlf stripped", input: "a\r\nb\r\n", want: "b"},
		{name: "carriage return ends a line", input: "10%\r55%\rdone\r", want: "done"},
		{name: "empty stream", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewLastLineTeeReader(strings.NewReader(tt.input), 1024)

			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			assert.Equal(t, tt.input, string(data))
			assert.Equal(t, tt.input, string(tr.Bytes()))
			assert.Equal(t, tt.want, tr.LastLine(0))
			assert.False(t, tr.Truncated())
		})
	}
}

func TestLastLineTeeReader_SmallChunks(t *testing.T) {
	input := "first line\nsecond line\nthird line\n"
	tr := NewLastLineTeeReader(strings.NewReader(input), 1024)

	buf := make([]byte, 3)

	for {
		_, err := tr.Read(buf)
		if err == io.EOF {
			break
		}

		require.NoError(t, err)
	}

	assert.Equal(t, "third line", tr.LastLine(0))
	assert.Equal(t, input, string(tr.Bytes()))
}

func TestLastLineTeeReader_KeepLimit(t *testing.T) {
	tr := NewLastLineTeeReader(strings.NewReader("0123456789\nabc\n"), 4)

	_, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Equal(t, "0123", string(tr.Bytes()))
	assert.True(t, tr.Truncated())
	assert.Equal(t, "abc", tr.LastLine(0), "line tracking ignores the keep limit")

	none := NewLastLineTeeReader(strings.NewReader("x\n"), 0)
	_, err = io.ReadAll(none)
	require.NoError(t, err)
	assert.Empty(t, none.Bytes())
	assert.False(t, none.Truncated())
}

func TestLastLineTeeReader_MaxLength(t *testing.T) {
	tr := NewLastLineTeeReader(strings.NewReader(strings.Repeat("x", 20)+"\n"), 0)

	_, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "xxxxxxx...", tr.LastLine(10))
}

func TestLastLineTeeReader_ConcurrentAccess(t *testing.T) {
	input := strings.Repeat("line\n", 1000)
	tr := NewLastLineTeeReader(strings.NewReader(input), len(input))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		_, err := io.ReadAll(tr)
		assert.NoError(t, err)
	}()

	for range 5 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				_ = tr.LastLine(0)
				_ = tr.Bytes()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, "line", tr.LastLine(0))
	assert.Equal(t, input, string(tr.Bytes()))
}

type errReader struct{ done bool }

func (e *errReader) Read(p []byte) (int, error) {
	if e.done {
		return 0, io.EOF
	}

	e.done = true

	return copy(p, "partial data"), assert.AnError
}

func TestLastLineTeeReader_ErrorKeepsData(t *testing.T) {
	tr := NewLastLineTeeReader(&errReader{}, 100)

	buf := make([]byte, 64)
	n, err := tr.Read(buf)

	assert.Equal(t, 12, n)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "partial data", string(tr.Bytes()))
	assert.Equal(t, "partial data", tr.LastLine(0))
}
