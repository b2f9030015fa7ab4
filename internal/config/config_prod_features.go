//go:build !testing

package config

import (
	"os"

	"github.com/spf13/pflag"
)

// SetupTestFlags conditionally adds test-specific flags to the flag set
// This function is included in builds without the "testing" tag.
func (c *Config) SetupTestFlags(fs *pflag.FlagSet) {
	// Honor RUNGUARD_TESTING=1 so integration tests can drive a normal build
	if os.Getenv(testingEnv) == "1" {
		addIdentityFlag(c, fs)
	}
	// Otherwise no test-specific flags in production builds
}
