package constants

// AppName is the program name used in resource names, log paths and messages
const AppName = "runguard"

// EnvPrefix prefixes every environment variable the program reads
const EnvPrefix = "RUNGUARD_"

// Process exit codes
const (
	ExitOK = 0
	// ExitFailure covers configuration and usage errors
	ExitFailure = 1
	// ExitAlreadyRunning means another live process owns the key
	ExitAlreadyRunning = 3
	// ExitLockUnavailable means the semaphore or shared segment could not be used
	ExitLockUnavailable = 4
)

// Tagline is printed by the version command
const Tagline = "one instance per key, across processes"
