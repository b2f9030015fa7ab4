// Package common provides interfaces shared across the runguard packages.
//
// It holds contracts that several packages depend on without depending on
// each other: the instance guard logs through common.Logger, the command-line
// program supplies the concrete implementation from package logger.
//
// # Core Components
//
// - Logger: logging methods split into internal (file only) and user-facing
// (file + terminal) messages
//
// # Usage
//
//	type Component struct {
//	    logger common.Logger
//	}
//
//	func (c *Component) Claim() {
//	    c.logger.Info("claiming key %q", key)           // debug log only
//	    c.logger.Success("claimed key %q", key)         // shown to the user
//	}
//
// The package has no dependencies on other internal packages.
package common
