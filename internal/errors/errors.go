package errors

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrAlreadyRunning indicates another live process holds the claim for the key
	ErrAlreadyRunning = errors.New("another instance is already running")

	// ErrLockUnavailable indicates the locking mechanism itself is broken
	// (the semaphore or the shared segment could not be opened, created or mapped).
	// It is distinct from ErrAlreadyRunning: the caller cannot know whether
	// another instance exists.
	ErrLockUnavailable = errors.New("instance lock unavailable")

	// ErrUnsupportedPlatform indicates shared segments are not implemented for this OS
	ErrUnsupportedPlatform = errors.New("shared memory segments are not supported on this platform")

	// ErrInvalidConfiguration indicates an invalid or conflicting user configuration
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrCommandFailed indicates the guarded command could not be started
	ErrCommandFailed = errors.New("command failed to start")
)

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
// A nil err yields nil.
func Wrap(err error, message string) error {
	return pkgerrors.WithMessage(err, message)
}

// Wrapf wraps an error with a formatted message for better context.
// A nil err yields nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.WithMessagef(err, format, args...)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Resource names the named OS resource a GuardError refers to
type Resource string

const (
	ResourceSemaphore Resource = "semaphore"
	ResourceSegment   Resource = "segment"
)

// GuardError represents an error that occurred while operating on an instance
// guard's named resources. It carries the key, the resource path, the owner
// PID when known, and the underlying error.
type GuardError struct {
	Key      string
	Resource Resource
	Path     string
	PID      int
	Err      error
}

// Error implements the error interface with details about the key, resource and owner.
func (e *GuardError) Error() string {
	msg := fmt.Sprintf("instance guard %q", e.Key)
	if e.Resource != "" {
		msg = fmt.Sprintf("%s %s %s", msg, e.Resource, e.Path)
	}
	if e.PID > 0 {
		msg = fmt.Sprintf("%s (PID: %d)", msg, e.PID)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GuardError) Unwrap() error {
	return e.Err
}

// NewGuardError creates a new GuardError with the given parameters.
func NewGuardError(key string, resource Resource, path string, pid int, err error) *GuardError {
	return &GuardError{
		Key:      key,
		Resource: resource,
		Path:     path,
		PID:      pid,
		Err:      err,
	}
}

// CommandError represents a guarded command that could not be run.
// It captures the command line and the underlying error.
type CommandError struct {
	Name string
	Args []string
	Err  error
}

// Error implements the error interface with the command line and cause.
func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", cmdline, e.Err)
	}
	return cmdline
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError with the given parameters.
func NewCommandError(name string, args []string, err error) *CommandError {
	return &CommandError{
		Name: name,
		Args: args,
		Err:  err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
