// Package logger provides structured logging for vkscan on top of zerolog.
//
// Console output is colourised and written to stderr. When a log file is
// configured every entry is also appended to it as a JSON line.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("handle", "alice").Info("resolving user")
//
// Tests use NewTestLogger to capture entries or NewNopLogger to drop them.
package logger
