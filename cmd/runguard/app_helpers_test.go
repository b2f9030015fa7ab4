package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bashhack/runguard/internal/config"
	"github.com/bashhack/runguard/internal/logger"
	"github.com/bashhack/runguard/internal/runguard"
)

// MockGuard implements the Guard interface for testing
type MockGuard struct {
	mu sync.Mutex

	KeyValue string

	TryToRunResult bool
	TryToRunErr    error
	RunningResult  bool
	RunningErr     error
	OwnerPID       int
	OwnerAlive     bool
	OwnerErr       error
	StalePID       int
	StaleCleared   bool
	StaleErr       error
	ReleaseErr     error

	TryToRunCalled     bool
	TryToRunDeadline   bool
	ReleaseCalled      int
	ReleaseStaleCalled bool
}

func (m *MockGuard) Key() string {
	return m.KeyValue
}

func (m *MockGuard) IsAnotherRunning(ctx context.Context) (bool, error) {
	return m.RunningResult, m.RunningErr
}

func (m *MockGuard) TryToRun(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TryToRunCalled = true
	_, m.TryToRunDeadline = ctx.Deadline()
	return m.TryToRunResult, m.TryToRunErr
}

func (m *MockGuard) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCalled++
	return m.ReleaseErr
}

func (m *MockGuard) Owner(ctx context.Context) (int, bool, error) {
	return m.OwnerPID, m.OwnerAlive, m.OwnerErr
}

func (m *MockGuard) ReleaseStale(ctx context.Context) (int, bool, error) {
	m.ReleaseStaleCalled = true
	return m.StalePID, m.StaleCleared, m.StaleErr
}

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	InfoCalled          bool
	InfoToUserCalled    bool
	WarningCalled       bool
	WarningToUserCalled bool
	ErrorCalled         bool
	SuccessCalled       bool
	StatusCalled        bool
	CloseCalled         bool
	CloseErr            error
	LastMessage         string
}

// Info logs an info message
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// Warning logs an warning message
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// Error logs an error message
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// InfoToUser logs an info message to the user
func (m *MockLogger) InfoToUser(format string, args ...interface{}) {
	m.InfoToUserCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// WarningToUser logs a warning message to the user
func (m *MockLogger) WarningToUser(format string, args ...interface{}) {
	m.WarningToUserCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// Success logs a success message
func (m *MockLogger) Success(format string, args ...interface{}) {
	m.SuccessCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// StatusMessage logs a status message
func (m *MockLogger) StatusMessage(format string, args ...interface{}) {
	m.StatusCalled = true
	m.LastMessage = fmt.Sprintf(format, args...)
}

// Close records the call
func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return m.CloseErr
}

// runnerCall records one invocation of a CommandRunner
type runnerCall struct {
	name string
	args []string
}

// mockRunner is a CommandRunner returning a fixed result
type mockRunner struct {
	calls  []runnerCall
	code   int
	err    error
	during func()
}

func (m *mockRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	m.calls = append(m.calls, runnerCall{name: name, args: args})
	if m.during != nil {
		m.during()
	}
	return m.code, m.err
}

// testApp bundles an App with its captured output
type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// isolateEnv keeps the user's config file and RUNGUARD_* variables out of a test
func isolateEnv(t *testing.T) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for _, name := range []string{"KEY", "DIR", "TIMEOUT", "VERBOSE", "DEBUG", "LOG_FILE", "CONFIG"} {
		t.Setenv("RUNGUARD_"+name, "")
		require.NoError(t, os.Unsetenv("RUNGUARD_"+name))
	}
}

// NewTestApp creates an App with buffered output, a quiet real logger and
// the given guard and runner
func NewTestApp(t *testing.T, guard Guard, runner CommandRunner) *testApp {
	t.Helper()
	isolateEnv(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cfg := config.New()
	cfg.VersionInfo = config.VersionInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-02"}

	app := NewApp(AppOptions{
		Config:     cfg,
		Logger:     logger.NewWithOutput(false, "", true, stdout, stderr),
		Guard:      guard,
		Stdout:     stdout,
		Stderr:     stderr,
		Exit:       func(int) {},
		RunCommand: runner,
		NewGuard: func(key string, opts runguard.Options) (Guard, error) {
			return nil, fmt.Errorf("unexpected guard construction for %q", key)
		},
	})

	return &testApp{App: app, stdout: stdout, stderr: stderr}
}

// WithExit mocks the exit function
func WithExit(app *App, fn func(int)) *App {
	app.exit = fn
	return app
}
