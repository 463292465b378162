// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/signalbroker"
	"github.com/matt-FFFFFF/sysvault/internal/teereader"
)

const (
	maxBufferSize = 8 * 1024 * 1024 // 8MB
	lastLineMax   = 512
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when captured output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the output pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrTimeoutExceeded is returned when the context ends before the process does.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrRedirect is returned when a stdin or stdout file could not be opened.
	ErrRedirect = errors.New("could not open redirect file")
	// ErrSignalReceived is returned when an operating system signal was passed to the process.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
	// ErrNonZeroExitCode is returned when the process exits unsuccessfully.
	ErrNonZeroExitCode = errors.New("process exited with non-zero exit code")
	// ErrElevationUnavailable is returned when root is needed and sudo is not installed.
	ErrElevationUnavailable = errors.New("root privileges required and sudo not found")
)

// geteuid is replaced in tests.
var geteuid = os.Geteuid

// LineFunc receives one line of output without its terminator. "\n", "\r\n"
// and a lone "\r" all end a line.
type LineFunc func(line string)

// OSCommand is a process run as a step.
//
// By default stdout and stderr are merged into one pipe and captured, up to
// 8MB. With LineSink set each line is also handed over as it arrives. With
// PassThrough the process writes straight to the parent's stdout and stderr
// and nothing is captured.
type OSCommand struct {
	*BaseCommand
	Path        string   // Executable, either a path or a name looked up in PATH
	Args        []string // Arguments to the command, do not include the executable name itself
	StdinFile   string   // File given to the process as stdin, default is the parent's stdin
	StdoutFile  string   // File the process stdout is written to, replacing it in the captured output
	LineSink    LineFunc // Called with each line of captured output, in order
	PassThrough bool     // Inherit stdout and stderr instead of capturing
	Elevate     bool     // Run through sudo unless already root
	PreserveEnv bool     // Pass -E to sudo so the environment reaches the process
	sigCh       chan os.Signal
}

// NewOSCommand returns a command that runs on success with no extra environment.
func NewOSCommand(label, path string, args ...string) *OSCommand {
	return &OSCommand{
		BaseCommand: NewBaseCommand(label, "", RunOnSuccess, nil),
		Path:        path,
		Args:        args,
	}
}

// Argv returns the executable and the full argument vector the process is started with.
func (c *OSCommand) Argv() (string, []string, error) {
	exe, err := FindInPath(c.Path)
	if err != nil {
		return "", nil, err
	}

	if !c.Elevate || geteuid() == 0 {
		return exe, slices.Concat([]string{filepath.Base(exe)}, c.Args), nil
	}

	sudo, err := FindInPath("sudo")
	if err != nil {
		return "", nil, errors.Join(ErrElevationUnavailable, err)
	}

	args := []string{"sudo"}
	if c.PreserveEnv {
		args = append(args, "-E")
	}

	return sudo, slices.Concat(args, []string{exe}, c.Args), nil
}

// Environ returns the parent environment followed by the command's own variables, in key order.
func (c *OSCommand) Environ() []string {
	env := os.Environ()

	if c.BaseCommand == nil {
		return env
	}

	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}

	return env
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) Results {
	if c.BaseCommand == nil {
		c.BaseCommand = NewBaseCommand("", "", RunOnSuccess, nil)
	}

	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", c.GetLabel())

	res := &Result{
		Label:  c.GetLabel(),
		Status: ResultStatusError,
	}

	fail := func(err error) Results {
		res.Error = err
		res.ExitCode = -1

		return Results{res}
	}

	exe, args, err := c.Argv()
	if err != nil {
		return fail(errors.Join(ErrCouldNotStartProcess, err))
	}

	logger.Debug("command info", "path", exe, "cwd", c.Cwd, "args", args[1:])

	files, rOut, closeAfterStart, err := c.files()
	if err != nil {
		return fail(err)
	}

	ps, err := os.StartProcess(exe, args, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   c.Environ(),
		Files: files,
	})

	for _, f := range closeAfterStart {
		_ = f.Close()
	}

	if err != nil {
		if rOut != nil {
			_ = rOut.Close()
		}

		return fail(errors.Join(ErrCouldNotStartProcess, err))
	}

	logger.Debug("process started", "pid", ps.Pid)

	sigCh := c.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	done := make(chan struct{})
	killed := make(chan error, 2)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		c.watchdog(ctx, ps, sigCh, done, killed)
	}()

	var tee *teereader.LastLineTeeReader

	var readErr error

	if rOut != nil {
		tee = teereader.NewLastLineTeeReader(rOut, maxBufferSize)
		readErr = drain(tee, c.LineSink)
		_ = rOut.Close()
	}

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	close(done)
	wg.Wait()
	close(killed)

	res.ExitCode = -1
	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	res.Error = psErr

	for e := range killed {
		res.Error = errors.Join(res.Error, e)
	}

	if readErr != nil {
		res.Error = errors.Join(res.Error, readErr)
	}

	if tee != nil {
		res.Output = tee.Bytes()
		res.LastLine = tee.LastLine(lastLineMax)

		if tee.Truncated() && c.LineSink == nil {
			res.Error = errors.Join(res.Error, ErrBufferOverflow)
		}
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "outputBytes", len(res.Output))

	switch {
	case res.Error == nil && res.ExitCode == 0:
		res.Status = ResultStatusSuccess
	case res.Error == nil:
		res.Error = fmt.Errorf("%w: %d", ErrNonZeroExitCode, res.ExitCode)
	case res.ExitCode == 0:
		res.ExitCode = -1
	}

	if res.Status == ResultStatusError {
		logger.Debug("process error", "error", res.Error, "exitCode", res.ExitCode)
	}

	return Results{res}
}

// files builds the process file table. The returned files are the parent's
// copies of the child ends, which must be closed once the process has started.
func (c *OSCommand) files() ([]*os.File, *os.File, []*os.File, error) {
	var closeAfterStart []*os.File

	cleanup := func() {
		for _, f := range closeAfterStart {
			_ = f.Close()
		}
	}

	stdin := os.Stdin

	if c.StdinFile != "" {
		f, err := os.Open(c.StdinFile)
		if err != nil {
			return nil, nil, nil, errors.Join(ErrRedirect, err)
		}

		stdin = f
		closeAfterStart = append(closeAfterStart, f)
	}

	if c.PassThrough {
		stdout := os.Stdout

		if c.StdoutFile != "" {
			f, err := os.Create(c.StdoutFile)
			if err != nil {
				cleanup()
				return nil, nil, nil, errors.Join(ErrRedirect, err)
			}

			stdout = f
			closeAfterStart = append(closeAfterStart, f)
		}

		return []*os.File{stdin, stdout, os.Stderr}, nil, closeAfterStart, nil
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		cleanup()
		return nil, nil, nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	closeAfterStart = append(closeAfterStart, wOut)
	stdout := wOut

	if c.StdoutFile != "" {
		f, err := os.Create(c.StdoutFile)
		if err != nil {
			cleanup()
			_ = rOut.Close()

			return nil, nil, nil, errors.Join(ErrRedirect, err)
		}

		stdout = f
		closeAfterStart = append(closeAfterStart, f)
	}

	return []*os.File{stdin, stdout, wOut}, rOut, closeAfterStart, nil
}

// watchdog passes the first signal of each type to the process and kills it
// on a repeat or when the context ends.
func (c *OSCommand) watchdog(ctx context.Context, ps *os.Process, sigCh <-chan os.Signal, done <-chan struct{}, killed chan<- error) {
	logger := ctxlog.Logger(ctx)
	lvl := c.noticeLevel()
	signalCount := make(map[os.Signal]struct{})

	for {
		select {
		case s := <-sigCh:
			if _, ok := signalCount[s]; ok {
				logger.Log(ctx, lvl, "received duplicate signal, killing process", "signal", s.String())
				killPs(ctx, ps, lvl)

				killed <- ErrDuplicateSignalReceived

				return
			}

			signalCount[s] = struct{}{}

			logger.Log(ctx, lvl, "received signal", "signal", s.String())

			if err := ps.Signal(s); err != nil {
				logger.Log(ctx, lvl, "failed to send signal", "signal", s.String(), "error", err)
			}

			if len(signalCount) == 1 {
				killed <- ErrSignalReceived
			}

		case <-ctx.Done():
			logger.Log(ctx, lvl, "context done, killing process")
			killPs(ctx, ps, lvl)

			killed <- ErrTimeoutExceeded

			return

		case <-done:
			return
		}
	}
}

// noticeLevel is the level for records logged while the process runs. A
// LineSink owns the terminal until the process ends, so they drop to Debug.
func (c *OSCommand) noticeLevel() slog.Level {
	if c.LineSink != nil {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// drain reads r to the end, handing each line to sink when set.
func drain(r io.Reader, sink LineFunc) error {
	if sink == nil {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return errors.Join(ErrFailedToReadBuffer, err)
		}

		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	sc.Split(scanLines)

	for sc.Scan() {
		sink(sc.Text())
	}

	if err := sc.Err(); err != nil {
		return errors.Join(ErrFailedToReadBuffer, err)
	}

	return nil
}

func killPs(ctx context.Context, ps *os.Process, lvl slog.Level) {
	logger := ctxlog.Logger(ctx)

	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			logger.Debug("process already done", "pid", ps.Pid)
			return
		}

		errLvl := slog.LevelError
		if lvl == slog.LevelDebug {
			errLvl = lvl
		}

		logger.Log(ctx, errLvl, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	logger.Log(ctx, lvl, "process killed", "pid", ps.Pid)
}
