//go:build testing

package config

import (
	"github.com/spf13/pflag"
)

// SetupTestFlags adds test-specific flags to the flag set when built with the "testing" tag
func (c *Config) SetupTestFlags(fs *pflag.FlagSet) {
	// Always include test-specific flags in test builds
	addIdentityFlag(c, fs)
}
