// Package logger provides logging facilities for the runguard application.
//
// DefaultLogger implements common.Logger. Internal messages go to an optional
// debug log file written by logrus; user-facing messages go to stdout (or
// stderr for errors) with a short emoji prefix.
//
// # Message Types
//
// - Info: debug log only
// - Warning: debug log, and stdout when verbose
// - Error: debug log and stderr
// - InfoToUser, WarningToUser, Success: debug log and stdout
// - StatusMessage: stdout only, never logged
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose)
//	defer log.Close()
//
//	log.Info("derived segment %s", path)
//	log.Success("claimed key %q", key)
//
// NewNop returns a logger that discards everything.
//
// # File Logging
//
// When debug logging is enabled the log file is opened in append mode and
// lines are written in logrus text format with full timestamps and no color.
// Close syncs and closes the file and is safe to call more than once.
//
// # Thread Safety
//
// DefaultLogger is safe for concurrent use by multiple goroutines.
package logger
