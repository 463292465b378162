// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionCommandRun(t *testing.T) {
	testErr := errors.New("function failed")

	tests := []struct {
		name       string
		fn         FunctionCommandFunc
		wantStatus ResultStatus
		wantCode   int
		wantErr    error
	}{
		{
			name:       "success",
			fn:         func(context.Context) error { return nil },
			wantStatus: ResultStatusSuccess,
		},
		{
			name:       "nil function",
			wantStatus: ResultStatusSuccess,
		},
		{
			name:       "failure",
			fn:         func(context.Context) error { return testErr },
			wantStatus: ResultStatusError,
			wantCode:   -1,
			wantErr:    testErr,
		},
		{
			name:       "intentional skip is a success",
			fn:         func(context.Context) error { return ErrSkipIntentional },
			wantStatus: ResultStatusSuccess,
			wantErr:    ErrSkipIntentional,
		},
		{
			name:       "panic with error",
			fn:         func(context.Context) error { panic(testErr) },
			wantStatus: ResultStatusError,
			wantCode:   -1,
			wantErr:    testErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			results := NewFunctionCommand(tt.name, RunOnSuccess, tt.fn).Run(ctx)
			require.Len(t, results, 1)

			res := results[0]
			assert.Equal(t, tt.name, res.Label)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantCode, res.ExitCode)

			if tt.wantErr == nil {
				assert.NoError(t, res.Error)
				return
			}

			assert.ErrorIs(t, res.Error, tt.wantErr)
		})
	}
}

func TestFunctionCommandRun_PanicWithString(t *testing.T) {
	cmd := NewFunctionCommand("panics", RunOnSuccess, func(context.Context) error {
		panic("boom")
	})

	res := cmd.Run(context.Background())[0]

	var panicErr *ErrFunctionCmdPanic

	require.ErrorAs(t, res.Error, &panicErr)
	assert.Equal(t, "function command panic: boom", res.Error.Error())
}

func TestFunctionCommandRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := NewFunctionCommand("waits", RunOnSuccess, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	res := cmd.Run(ctx)[0]
	assert.Equal(t, ResultStatusError, res.Status)
	assert.ErrorIs(t, res.Error, context.DeadlineExceeded)
}
