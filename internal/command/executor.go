package command

import (
	"context"
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/bashhack/runguard/internal/errors"
)

// DefaultGracePeriod is how long a cancelled command gets to exit after
// SIGTERM before it is killed
const DefaultGracePeriod = 5 * time.Second

// Executor defines an interface for running the guarded command
type Executor interface {
	// Run runs name with args to completion and returns its exit code.
	// The error is non-nil only when the command could not be run at all.
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error)
}

// ExecExecutor is the default implementation of Executor
// that delegates to the os/exec package
type ExecExecutor struct {
	// GracePeriod bounds the wait between SIGTERM and SIGKILL on cancellation
	GracePeriod time.Duration
}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{GracePeriod: DefaultGracePeriod}
}

// Run implements Executor.Run. When ctx ends the command is sent SIGTERM and,
// if it is still running after GracePeriod, killed. A command killed by a
// signal reports 128 plus the signal number, as shells do.
func (e *ExecExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.GracePeriod

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// A command that exits cleanly after being told to stop still ran
		if ctx.Err() != nil && cmd.ProcessState != nil {
			return cmd.ProcessState.ExitCode(), nil
		}
		return 0, errors.NewCommandError(name, args, errors.Wrap(errors.ErrCommandFailed, err.Error()))
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
