// Package main implements runguard, a single-instance guard for any command
//
// runguard makes sure that at most one process per key is running at a time,
// across the whole machine. Every instance that should exclude the others uses
// the same key. A claim left behind by a process that crashed or was killed is
// detected as stale and taken over by the next claimant.
//
// # Command-Line Documentation
//
// This package provides the command-line interface. The guard itself lives in
// internal/runguard and can be embedded in other Go programs.
//
// # Commands
//
//	runguard run --key K [--] COMMAND [ARGS...]   Run COMMAND while holding K
//	runguard run --key K                          Hold K until interrupted
//	runguard status --key K                       Report who owns K
//	runguard release-stale --key K                Clear a dead owner's claim
//	runguard version                              Print version information
//
// # Basic Usage
//
//	runguard run --key nightly-backup -- /usr/local/bin/backup.sh
//	runguard run -k my-app --timeout 2s -- ./my-app --port 8080
//	runguard status -k my-app
//
// # Configuration Options
//
// The tool can be configured via command-line flags, environment variables or
// a TOML config file (~/.config/runguard/config.toml):
//
//	--key, -k     Key shared by mutually exclusive instances (env: RUNGUARD_KEY)
//	--dir         Directory for the semaphore and segment files (env: RUNGUARD_DIR)
//	--timeout     How long to wait for the semaphore (env: RUNGUARD_TIMEOUT)
//	--quiet, -q   Hide informational messages (env: RUNGUARD_VERBOSE=false)
//	--debug       Enable detailed logging (env: RUNGUARD_DEBUG=true)
//	--log-file    Path to log file (env: RUNGUARD_LOG_FILE)
//	--config      Path to the config file (env: RUNGUARD_CONFIG)
//
// # Exit Codes
//
//	0    Success, or the guarded command exited with 0
//	1    Usage or configuration error; status found no live owner
//	3    Another instance already owns the key
//	4    The semaphore or shared segment could not be used
//	n    Any other code is the guarded command's own exit status
//
// # Signals
//
// SIGINT, SIGTERM and SIGHUP release a held claim. A guarded command is sent
// SIGTERM and killed if it has not exited five seconds later.
package main
