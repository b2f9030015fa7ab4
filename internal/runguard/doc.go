// Package runguard provides cross-process single-instance enforcement.
//
// A Guard answers "is another instance of this application already running?"
// and, if not, claims the running status for the current process. Two named
// OS resources, both derived from an application key, back it:
//
//   - a named semaphore (an flock(2)-locked file) that serializes the whole
//     read-owner, check-liveness, write-owner sequence across processes
//   - a shared segment (a file mapped MAP_SHARED) holding one record: the PID
//     of the current owner, zero when unowned
//
// # Core Components
//
// - Guard: claim, check and release operations for one key
// - ProcessChecker: liveness prober used to recover stale claims
//
// # Usage
//
// Call TryToRun at the very start of the program, before any heavyweight
// initialization:
//
//	guard, err := runguard.New("my-app", runguard.Options{})
//	if err != nil {
//	    // invalid key
//	}
//	defer guard.Release()
//
//	ok, err := guard.TryToRun(ctx)
//	switch {
//	case err != nil:
//	    // lock mechanism unavailable (errors.ErrLockUnavailable)
//	case !ok:
//	    // another instance is running; exit
//	}
//
// # Resource Names
//
// Both resources live in one directory, /dev/shm when present and the OS
// temporary directory otherwise:
//
//	<dir>/runguard-<sha1(key+"_semaphore")>.lock
//	<dir>/runguard-<sha1(key+"_segment")>.shm
//
// Names are stable across runs and collide only for identical keys.
//
// # Stale Claims
//
// A process that dies without Release leaves its PID in the segment. The
// next TryToRun asks the OS whether that PID still exists and reclaims the
// key when it does not. A PID recycled by an unrelated process after a crash
// reads as "still running"; this is a known limitation.
//
// # Errors
//
// IsAnotherRunning fails open: a missing or unreadable segment means no
// owner. TryToRun reports a broken mechanism as an error wrapping
// errors.ErrLockUnavailable, distinct from the (false, nil) "another instance
// owns the key" result.
//
// # Thread Safety
//
// A Guard may be shared between goroutines. The semaphore wait blocks the
// caller; pass a cancellable context to bound it.
package runguard
