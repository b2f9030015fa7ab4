package common

// Logger is how runguard reports what it does. The instance guard only uses
// the internal methods, which reach the debug log file when one is enabled.
// The command-line program also uses the user-facing methods, which print to
// the terminal.
type Logger interface {
	// Debug log only

	// Info records a step such as a claim, a refusal or a stale takeover
	Info(format string, args ...interface{})

	// Warning records a recoverable problem, like an unreadable owner record.
	// It is printed only in verbose mode.
	Warning(format string, args ...interface{})

	// Error records a failure; it is also printed to stderr
	Error(format string, args ...interface{})

	// Terminal and debug log

	// InfoToUser prints a notice such as "Holding key" when verbose
	InfoToUser(format string, args ...interface{})

	// WarningToUser prints a warning, like a key held by a live process
	WarningToUser(format string, args ...interface{})

	// Success prints a completed action, like clearing a stale claim
	Success(format string, args ...interface{})

	// StatusMessage prints a bare line for scripts to parse, like
	// "running (PID 42)". It is not written to the debug log.
	StatusMessage(format string, args ...interface{})

	// Close flushes and closes the debug log file, if any
	Close() error
}
