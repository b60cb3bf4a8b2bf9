// Package logging provides structured logging for rtsctl.
//
// This package wraps a package-global zap logger with convenience functions.
// Logging is silent by default so the styled terminal output stays clean;
// set RTS_LOG_LEVEL (or pass --log-level) to "debug", "info", "warn" or
// "error" to enable it. Log output goes to stderr.
//
// # Structured Logging
//
//	logging.Info("Management ID found",
//	    zap.Int("device_id", 55),
//	    zap.String("management_id", "mgmt-9"),
//	)
//
// # API Logging
//
// The Jamf Pro client reports each call through LogHTTPRequest and
// LogHTTPResponse. Authorization headers and request bodies are never
// logged. Response bodies are only logged at debug level and truncated.
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging
