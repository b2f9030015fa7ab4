// Package constants provides application-wide constant values for runguard.
//
// # Core Components
//
// - AppName, EnvPrefix: naming used in resource files and environment lookup
// - Exit codes: the process exit statuses of the runguard command
// - Tagline: printed by the version command
//
// # Usage
//
//	import "github.com/bashhack/runguard/internal/constants"
//
//	if errors.Is(err, errors.ErrAlreadyRunning) {
//	    os.Exit(constants.ExitAlreadyRunning)
//	}
//
// # Maintenance
//
// Exit codes are part of the command's external interface; scripts rely on
// them, so existing values must not change.
package constants
