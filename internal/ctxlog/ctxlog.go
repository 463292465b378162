// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type loggerKey struct{}

// LevelVar is shared by every logger built by this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is used when the context carries no logger.
var DefaultLogger = slog.New(NewPrettyHandler(
	&slog.HandlerOptions{Level: LevelVar},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

func init() {
	exe, _ := os.Executable()
	LevelVar.Set(levelFromEnv(os.Getenv, EnvVarName(exe)))
}

// New returns a copy of ctx carrying logger. A nil logger means DefaultLogger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// WithLogFile returns a logger that writes every record to base and,
// as JSON lines, to w. It is used for the --log flag.
func WithLogFile(base *slog.Logger, w io.Writer) *slog.Logger {
	if base == nil {
		base = DefaultLogger
	}

	file := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LevelVar})

	return slog.New(NewFanoutHandler(base.Handler(), file))
}

// Info logs at INFO using the logger on ctx.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs at DEBUG using the logger on ctx.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs at WARN using the logger on ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs at ERROR using the logger on ctx.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// EnvVarName returns the log level variable for the executable at path.
func EnvVarName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.ReplaceAll(name, "-", "_")

	return strings.ToUpper(name) + "_LOG_LEVEL"
}

func levelFromEnv(getenv func(string) string, envName string) slog.Level {
	switch strings.ToUpper(getenv(envName)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
