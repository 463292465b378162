// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		min   slog.Level
		want  bool
	}{
		{name: "debug on debug handler", level: slog.LevelDebug, min: slog.LevelDebug, want: true},
		{name: "debug on info handler", level: slog.LevelDebug, min: slog.LevelInfo, want: false},
		{name: "error on warn handler", level: slog.LevelError, min: slog.LevelWarn, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPrettyHandler(&slog.HandlerOptions{Level: tt.min}, WithDestinationWriter(&bytes.Buffer{}))
			assert.Equal(t, tt.want, h.Enabled(context.Background(), tt.level))
		})
	}
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithDestinationWriter(&buf))
	logger := slog.New(h).With("step", "create")

	logger.Info("archive written", "bytes", 42)

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "archive written")
	assert.Contains(t, out, "step")
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "\033[", "colour must be off unless requested")
}

func TestPrettyHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(nil, WithDestinationWriter(&buf))
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelWarn, "plain", 0)

	require.NoError(t, h.Handle(context.Background(), r))
	assert.Equal(t, "[03:04:05.000] WARN: plain\n", buf.String())

	buf.Reset()

	h = NewPrettyHandler(nil, WithDestinationWriter(&buf), WithOutputEmptyAttrs())
	require.NoError(t, h.Handle(context.Background(), r))
	assert.Contains(t, buf.String(), "{}")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))
	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)

	err := h.Handle(context.Background(), r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestFanoutHandler(t *testing.T) {
	var a, b bytes.Buffer

	debug := slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug})
	warn := slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(NewFanoutHandler(debug, nil, warn)).WithGroup("g").With("k", "v")

	logger.Debug("only debug")
	logger.Warn("both")

	assert.Contains(t, a.String(), "only debug")
	assert.Contains(t, a.String(), "both")
	assert.Contains(t, a.String(), "g.k=v")
	assert.NotContains(t, b.String(), "only debug")
	assert.Contains(t, b.String(), "both")
	assert.False(t, NewFanoutHandler().Enabled(context.Background(), slog.LevelError))
}
