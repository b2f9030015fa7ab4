// Package runguard allows one running instance per key across processes
//
// runguard makes sure that at most one process on a host is running for a
// given key. The first process to claim the key owns it until it exits or
// releases it. Later processes are refused while the owner is alive. A claim
// left behind by a process that crashed or was killed is detected and taken
// over automatically, so no manual cleanup is needed after a crash.
//
// # Quick Start
//
//	# Run a job at most once at a time
//	runguard run --key nightly-backup -- /usr/local/bin/backup.sh
//
//	# Hold a key until Ctrl+C
//	runguard run --key my-app
//
//	# Ask who owns a key
//	runguard status --key nightly-backup
//
// # Key Features
//
//   - Cross-Process Exclusion: One owner per key, enforced by the operating system
//   - Crash Recovery: Claims of dead processes are reclaimed on the next attempt
//   - Exit Status Propagation: The guarded command's exit code becomes runguard's
//   - Bounded Waiting: An optional timeout limits how long a claim may block
//   - Layered Configuration: Flags, RUNGUARD_* variables and a TOML file
//
// # How It Works
//
// Each key maps to two files named by a SHA-1 digest of the key. A lock file
// acts as a semaphore that serializes every check and claim for the key. A
// small shared memory segment records the PID of the current owner, with 0
// meaning no owner. Both live in /dev/shm when it exists and in the system
// temporary directory otherwise.
//
// A claim takes the semaphore, reads the recorded PID and, if that process is
// gone, writes its own PID. Because the semaphore is a kernel-managed file
// lock, it is released automatically when its holder dies, so a crash can
// never wedge a key.
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/runguard: Command-line interface
//   - internal/runguard: The instance guard, semaphore and shared segment
//   - internal/command: Running the guarded command
//   - internal/config: Configuration and flag parsing
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//   - internal/constants: Application names and exit codes
//
// # Exit Codes
//
//   - 0: Success, or the guarded command succeeded
//   - 1: General failure, or status found no live owner
//   - 3: Another instance is already running for the key
//   - 4: The lock mechanism could not be used
//   - other: The guarded command's own exit code
//
// # Platform Support
//
// runguard is available for:
//
//   - macOS (Intel and Apple Silicon)
//   - Linux (x86_64, ARM64)
//   - Other Unix-like systems supporting flock(2) and mmap(2)
//
// Other platforms build, but claiming a key fails with a lock-unavailable
// error wrapping errors.ErrUnsupportedPlatform.
//
// # Implementation Notes
//
// The application handles signals (such as SIGINT, SIGTERM, and SIGHUP) so
// the claim is released and the guarded command is stopped cleanly when
// runguard is terminated.
package runguard
