package config

import (
	"github.com/spf13/pflag"
)

// testingEnv enables test-only flags in builds without the "testing" tag
const testingEnv = "RUNGUARD_TESTING"

const identityFlag = "identity-pid"

func addIdentityFlag(c *Config, fs *pflag.FlagSet) {
	fs.Int(identityFlag, c.IdentityPID, "Claim with this PID instead of the process's own (for testing)")
}

// applyTestFlags copies test-only flags, when defined and set, into the config
func (c *Config) applyTestFlags(fs *pflag.FlagSet) error {
	if fs.Lookup(identityFlag) == nil || !fs.Changed(identityFlag) {
		return nil
	}

	pid, err := fs.GetInt(identityFlag)
	if err != nil {
		return flagError(identityFlag, err)
	}
	c.IdentityPID = pid
	return nil
}
