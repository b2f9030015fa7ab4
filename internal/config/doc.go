// Package config provides configuration handling for the runguard application.
//
// This package gathers the settings for a runguard invocation from a TOML
// file, RUNGUARD_* environment variables and command-line flags, and
// validates them before a guard is built.
//
// # Core Components
//
// - Config: Main configuration type that holds all runguard settings
// - VersionInfo: Type for version, commit, and build date information
//
// # Configuration Sources
//
// Configuration values are loaded with the following precedence:
//
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Config file
// 4. Default values (lowest priority)
//
// The config file is the one named by --config, else RUNGUARD_CONFIG, else
// $XDG_CONFIG_HOME/runguard/config.toml. Only the last may be missing.
//
// # Config File
//
//	key = "my-app"
//	dir = "/dev/shm"
//	timeout = "5s"
//	verbose = true
//	debug = false
//	log_file = "/tmp/runguard.log"
//
// # Environment Variables
//
//	RUNGUARD_KEY       Key shared by mutually exclusive instances
//	RUNGUARD_DIR       Directory for semaphore and segment files (default: /dev/shm or temp dir)
//	RUNGUARD_TIMEOUT   Semaphore wait limit, e.g. "5s" (default: 0, wait indefinitely)
//	RUNGUARD_VERBOSE   Whether to show informational messages (default: true)
//	RUNGUARD_DEBUG     Enable debug logging (default: false)
//	RUNGUARD_LOG_FILE  Path to log file (default: ~/.local/share/runguard/logs/runguard-<hash>.log)
//	RUNGUARD_CONFIG    Path to the config file
//
// # Command-line Flags
//
//	--config      Path to the config file
//	--key, -k     Key shared by mutually exclusive instances
//	--dir         Directory for semaphore and segment files
//	--timeout     Semaphore wait limit
//	--quiet, -q   Hide informational messages
//	--debug       Enable debug logging
//	--log-file    Path to log file
//
// Builds with the "testing" tag, or run with RUNGUARD_TESTING=1, also accept
// --identity-pid to claim under a PID other than the process's own.
//
// # Usage
//
//	cfg := config.New()
//	cfg.SetupFlags(cmd.PersistentFlags())
//
//	// after cobra has parsed the command line
//	if err := cfg.Load(cmd.Flags()); err != nil {
//	    // Handle error
//	}
//	if err := cfg.Finalize(); err != nil {
//	    // Handle error
//	}
//
// # Thread Safety
//
// The Config type is not designed to be thread-safe. Configuration is loaded
// once per command and then used in a read-only fashion.
package config
