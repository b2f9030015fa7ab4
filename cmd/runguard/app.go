package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bashhack/runguard/internal/command"
	"github.com/bashhack/runguard/internal/common"
	"github.com/bashhack/runguard/internal/config"
	"github.com/bashhack/runguard/internal/constants"
	"github.com/bashhack/runguard/internal/errors"
	"github.com/bashhack/runguard/internal/logger"
	"github.com/bashhack/runguard/internal/runguard"
)

// Guard is the instance guard the commands drive
type Guard interface {
	Key() string
	IsAnotherRunning(ctx context.Context) (bool, error)
	TryToRun(ctx context.Context) (bool, error)
	Release() error
	Owner(ctx context.Context) (int, bool, error)
	ReleaseStale(ctx context.Context) (int, bool, error)
}

// GuardFactory builds the Guard for a key
type GuardFactory func(key string, opts runguard.Options) (Guard, error)

// CommandRunner runs name with args to completion and returns its exit code.
// The error is non-nil only when the command could not be started.
type CommandRunner func(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error)

// Logger alias to common.Logger
type Logger = common.Logger

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger Logger
	Guard  Guard

	// I/O dependencies
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit       func(code int)
	NewGuard   GuardFactory
	RunCommand CommandRunner
}

// App is the main runguard application
type App struct {
	Config *config.Config
	Logger Logger
	Guard  Guard

	// I/O streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit       func(code int)
	newGuard   GuardFactory
	runCommand CommandRunner
}

// exitStatusError carries a process exit code that needs no further message
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	opts := AppOptions{
		Config:     cfg,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Exit:       os.Exit,
		NewGuard:   newRunguard,
		RunCommand: command.NewExecExecutor().Run,
	}

	return NewApp(opts)
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:     opts.Config,
		Logger:     opts.Logger,
		Guard:      opts.Guard,
		Stdin:      opts.Stdin,
		Stdout:     opts.Stdout,
		Stderr:     opts.Stderr,
		exit:       opts.Exit,
		newGuard:   opts.NewGuard,
		runCommand: opts.RunCommand,
	}

	// Set defaults for nil dependencies
	if app.Stdin == nil {
		app.Stdin = os.Stdin
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.newGuard == nil {
		app.newGuard = newRunguard
	}
	if app.runCommand == nil {
		app.runCommand = command.NewExecExecutor().Run
	}

	return app
}

// RootCommand builds the command tree bound to this App
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Allow one running instance per key across processes",
		Long:          fmt.Sprintf("%s: %s.", constants.AppName, constants.Tagline),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetIn(a.Stdin)

	a.Config.SetupFlags(root.PersistentFlags())

	initialize := func(cmd *cobra.Command, _ []string) error {
		return a.Initialize(cmd.Flags())
	}

	runCmd := &cobra.Command{
		Use:   "run [flags] [--] [COMMAND [ARGS...]]",
		Short: "Claim the key and run COMMAND, or hold the claim until interrupted",
		Example: "  runguard run --key nightly-backup -- /usr/local/bin/backup.sh\n" +
			"  runguard run --key my-app",
		PreRunE: initialize,
		RunE:    a.runGuarded,
	}
	// Flags after COMMAND belong to COMMAND
	runCmd.Flags().SetInterspersed(false)

	statusCmd := &cobra.Command{
		Use:     "status",
		Short:   "Report whether an instance owns the key",
		Args:    cobra.NoArgs,
		PreRunE: initialize,
		RunE:    a.status,
	}

	releaseStaleCmd := &cobra.Command{
		Use:     "release-stale",
		Short:   "Clear a claim left behind by a process that no longer exists",
		Args:    cobra.NoArgs,
		PreRunE: initialize,
		RunE:    a.releaseStale,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.ShowVersion()
			return nil
		},
	}

	root.AddCommand(runCmd, statusCmd, releaseStaleCmd, versionCmd)
	return root
}

// Initialize resolves the configuration for a parsed flag set and sets up
// components not provided during construction
func (a *App) Initialize(fs *pflag.FlagSet) error {
	if err := a.Config.Load(fs); err != nil {
		return err
	}

	if err := a.Config.Finalize(); err != nil {
		// Since Config.Finalize() already returns a properly wrapped error,
		// we don't need to wrap it again if it's already our error type
		if errors.Is(err, errors.ErrInvalidConfiguration) {
			return err
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Verbose, a.Stdout, a.Stderr)
	}

	if a.Guard == nil {
		guard, err := a.newGuard(a.Config.Key, runguard.Options{
			Dir:    a.Config.Dir,
			PID:    a.Config.IdentityPID,
			Logger: a.Logger,
		})
		if err != nil {
			return errors.Wrap(err, "failed to initialize instance guard")
		}
		a.Guard = guard
	}

	a.Logger.Info("Configuration loaded: key=%q dir=%s timeout=%s config=%q",
		a.Config.Key, a.Config.Dir, a.Config.Timeout, a.Config.ConfigFile)
	return nil
}

// Execute runs the command line args and returns the process exit code
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.RootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	if closeErr := a.Close(); closeErr != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", closeErr)
	}

	return a.exitCode(err)
}

// exitCode reports err to the user and maps it to a process exit code
func (a *App) exitCode(err error) int {
	if err == nil {
		return constants.ExitOK
	}

	var status *exitStatusError
	if errors.As(err, &status) {
		return status.code
	}

	if errors.Is(err, errors.ErrAlreadyRunning) {
		_, _ = fmt.Fprintf(a.Stderr, "❌ %s\n", alreadyRunningMessage(err))
		return constants.ExitAlreadyRunning
	}

	_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v\n", err)

	if errors.Is(err, errors.ErrLockUnavailable) {
		return constants.ExitLockUnavailable
	}
	return constants.ExitFailure
}

func alreadyRunningMessage(err error) string {
	var guardErr *errors.GuardError
	if errors.As(err, &guardErr) && guardErr.PID > 0 {
		return fmt.Sprintf("%s for key %q (PID %d)", errors.ErrAlreadyRunning, guardErr.Key, guardErr.PID)
	}
	if errors.As(err, &guardErr) {
		return fmt.Sprintf("%s for key %q", errors.ErrAlreadyRunning, guardErr.Key)
	}
	return errors.ErrAlreadyRunning.Error()
}

// guardContext bounds a guard operation by the configured timeout
func (a *App) guardContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.Timeout > 0 {
		return context.WithTimeout(ctx, a.Config.Timeout)
	}
	return context.WithCancel(ctx)
}

// runGuarded claims the key and runs the command under the claim
func (a *App) runGuarded(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	claimCtx, cancel := a.guardContext(ctx)
	ok, err := a.Guard.TryToRun(claimCtx)
	if !ok && err == nil {
		owner, _, ownerErr := a.Guard.Owner(claimCtx)
		if ownerErr != nil {
			a.Logger.Warning("Could not read owner of key %q: %v", a.Guard.Key(), ownerErr)
		}
		cancel()
		return errors.NewGuardError(a.Guard.Key(), "", "", owner, errors.ErrAlreadyRunning)
	}
	cancel()
	if err != nil {
		return err
	}

	a.Logger.Info("Claim on key %q acquired", a.Guard.Key())

	if len(args) == 0 {
		if a.Config.Verbose {
			a.Logger.InfoToUser("Holding key %q; press Ctrl+C to release", a.Guard.Key())
		}
		<-ctx.Done()
		a.Logger.Info("Hold on key %q ended: %v", a.Guard.Key(), ctx.Err())
		return nil
	}

	a.Logger.Info("Running %s", strings.Join(args, " "))
	code, err := a.runCommand(ctx, args[0], args[1:], a.Stdin, a.Stdout, a.Stderr)
	if err != nil {
		return errors.Wrap(err, "failed to run guarded command")
	}

	a.Logger.Info("%s exited with status %d", args[0], code)
	if code != 0 {
		return &exitStatusError{code: code}
	}
	return nil
}

// status prints who owns the key
func (a *App) status(cmd *cobra.Command, _ []string) error {
	ctx, cancel := a.guardContext(cmd.Context())
	defer cancel()

	pid, alive, err := a.Guard.Owner(ctx)
	if err != nil {
		return err
	}

	switch {
	case pid == 0:
		a.Logger.StatusMessage("not running")
		return &exitStatusError{code: constants.ExitFailure}
	case !alive:
		a.Logger.StatusMessage("stale (PID %d)", pid)
		return &exitStatusError{code: constants.ExitFailure}
	default:
		a.Logger.StatusMessage("running (PID %d)", pid)
		return nil
	}
}

// releaseStale clears a claim whose owner is gone
func (a *App) releaseStale(cmd *cobra.Command, _ []string) error {
	ctx, cancel := a.guardContext(cmd.Context())
	defer cancel()

	pid, cleared, err := a.Guard.ReleaseStale(ctx)
	if err != nil {
		return err
	}

	switch {
	case cleared:
		a.Logger.Success("Cleared stale claim on key %q left by PID %d", a.Guard.Key(), pid)
		return nil
	case pid != 0:
		a.Logger.WarningToUser("Key %q is held by running PID %d; nothing to clear", a.Guard.Key(), pid)
		return &exitStatusError{code: constants.ExitFailure}
	default:
		if a.Config.Verbose {
			a.Logger.InfoToUser("No claim recorded for key %q", a.Guard.Key())
		}
		return nil
	}
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "%s %s (%s) built on %s\n",
		constants.AppName,
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// Close releases resources held by the App
func (a *App) Close() error {
	var result *multierror.Error

	// Release the claim if one is held
	if a.Guard != nil {
		if err := a.Guard.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release claim during cleanup: %v", err)
			}
			result = multierror.Append(result, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func newRunguard(key string, opts runguard.Options) (Guard, error) {
	g, err := runguard.New(key, opts)
	if err != nil {
		return nil, err
	}
	return g, nil
}
