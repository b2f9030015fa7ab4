// Package command runs the process that a runguard claim protects.
//
// The child inherits the caller's standard streams and runs to completion.
// Its exit status is passed back so the caller can exit with the same code.
//
// # Core Components
//
// - Executor: Interface for running the guarded command
// - ExecExecutor: Implementation backed by os/exec
//
// # Cancellation
//
// When the context passed to Run ends, the child is sent SIGTERM. A child
// still running after GracePeriod is killed. A child terminated by a signal
// reports 128 plus the signal number, matching what a POSIX shell reports.
//
// # Errors
//
// Run returns an error only when the command could not be started at all,
// for example when the executable is not on PATH. Such errors wrap
// errors.ErrCommandFailed inside an errors.CommandError.
//
// # Usage
//
//	executor := command.NewExecExecutor()
//	code, err := executor.Run(ctx, "backup.sh", []string{"--full"}, os.Stdin, os.Stdout, os.Stderr)
//	if err != nil {
//	    // Handle error
//	}
//	os.Exit(code)
package command
