package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	logger := New(false, logFile, true)
	require.NotNil(t, logger)

	_, err := os.Stat(logFile)
	assert.True(t, os.IsNotExist(err), "no log file should be created when debug is disabled")

	logger = NewWithOutput(true, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})
	require.NotNil(t, logger)
	t.Cleanup(func() { _ = logger.Close() })

	content, err := os.ReadFile(logFile)
	require.NoError(t, err, "log file should be created when debug is enabled")
	assert.Contains(t, string(content), "runguard debug logging started")
}

func TestLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger := NewWithOutput(true, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})
	logger.Info("Test info message")
	logger.Warning("Test warning message")
	logger.Error("Test error message")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	logContent := string(content)
	assert.Contains(t, logContent, "Test info message")
	assert.Contains(t, logContent, "level=warning")
	assert.Contains(t, logContent, "Test warning message")
	assert.Contains(t, logContent, "level=error")
	assert.Contains(t, logContent, "Test error message")

	require.NoError(t, os.Remove(logFile))

	logger = NewWithOutput(false, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})
	logger.Info("This should not be logged")
	logger.Warning("This should not be logged")
	logger.Error("This should not be logged")

	_, err = os.Stat(logFile)
	assert.True(t, os.IsNotExist(err), "no log file should be created when debug is disabled")
}

func TestWarningVerbosity(t *testing.T) {
	tests := map[string]struct {
		verbose      bool
		expectOutput bool
	}{
		"Verbose": {verbose: true, expectOutput: true},
		"Quiet":   {verbose: false, expectOutput: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			logger := NewWithOutput(false, "", test.verbose, stdout, &bytes.Buffer{})

			logger.Warning("reclaiming stale claim from PID %d", 4242)

			if test.expectOutput {
				assert.Contains(t, stdout.String(), "reclaiming stale claim from PID 4242")
			} else {
				assert.Empty(t, stdout.String())
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Info("info %d", 1)
		logger.Warning("warning")
		logger.Error("error")
		logger.InfoToUser("to user")
		logger.WarningToUser("to user")
		logger.Success("success")
		logger.StatusMessage("status")
	})
	assert.NoError(t, logger.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	logger := NewWithOutput(true, logFile, false, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())

	assert.NotPanics(t, func() { logger.Info("after close") })
}
