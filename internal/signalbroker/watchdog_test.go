// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctxlog.New(ctx, slog.New(slog.NewTextHandler(io.Discard, nil))), cancel
}

func TestWatch(t *testing.T) {
	tests := []struct {
		name         string
		signals      []os.Signal
		wantCanceled bool
	}{
		{
			name:    "first signal only logs",
			signals: []os.Signal{syscall.SIGINT},
		},
		{
			name:         "second identical signal cancels",
			signals:      []os.Signal{syscall.SIGINT, syscall.SIGINT},
			wantCanceled: true,
		},
		{
			name:    "different signals do not cancel",
			signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := quietContext()
			defer cancel()

			sigCh := make(chan os.Signal, len(tt.signals))
			done := make(chan struct{})

			go func() {
				defer close(done)
				Watch(ctx, sigCh, cancel)
			}()

			for _, s := range tt.signals {
				sigCh <- s
			}

			if tt.wantCanceled {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("Watch did not return after the second signal")
				}

				assert.Error(t, ctx.Err())

				_, open := <-sigCh
				assert.False(t, open, "Watch closes the channel after cancelling")

				return
			}

			time.Sleep(20 * time.Millisecond)
			assert.NoError(t, ctx.Err())
			close(sigCh)
			<-done
		})
	}
}

func TestNewAndStop(t *testing.T) {
	ctx, cancel := quietContext()
	defer cancel()

	ch := New(ctx, syscall.SIGUSR1)
	assert.Equal(t, 1, cap(ch))

	Stop(ch)
	Stop(nil)
}
