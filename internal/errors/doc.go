// Package errors provides error handling utilities for the runguard application.
//
// This package defines the sentinel errors and typed errors used by the
// instance guard and the command-line program. It focuses on providing rich
// context for errors while staying compatible with errors.Is and errors.As.
//
// # Sentinels
//
//   - ErrAlreadyRunning: a live process owns the key
//   - ErrLockUnavailable: the semaphore or shared segment could not be used
//   - ErrUnsupportedPlatform: no shared segment implementation for this OS
//   - ErrInvalidConfiguration: bad user configuration
//
// ErrAlreadyRunning and ErrLockUnavailable are deliberately separate so that a
// caller can tell "someone else is running" from "the lock is broken".
//
// # Usage
//
//	ok, err := guard.TryToRun(ctx)
//	if errors.Is(err, errors.ErrLockUnavailable) {
//	    // lock mechanism broken
//	}
//	if !ok {
//	    // another instance owns the key
//	}
//
// # Error Wrapping
//
// Wrap and Wrapf attach a message to an error (via github.com/pkg/errors) and
// keep the chain intact. Wrapping a nil error yields nil.
//
// # Thread Safety
//
// All types and functions in this package are safe for concurrent use
// by multiple goroutines.
package errors
