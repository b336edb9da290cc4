// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to stderr, keeping stdout free for shell pipelines
//   - Logs additionally to the systemd journal when available (Linux systems with journald)
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "auto",      // Output format: auto, text or json
//		Modules: map[string]string{
//			"grab":    "debug", // Per-module overrides
//			"devices": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "device", "/dev/video0")
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("grab").With("device", path)
//	logger.Info("Capture started")  // Includes device in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// # Output Format
//
// The "auto" format picks text when stderr is a terminal and json otherwise,
// so interactive sessions stay readable and service logs stay machine-parseable.
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t mjpeggrab              # All mjpeggrab logs
//	journalctl -t mjpeggrab -f           # Follow live
//	journalctl -t mjpeggrab --since "5m" # Last 5 minutes
//	journalctl -t mjpeggrab -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t mjpeggrab MODULE=grab
//	journalctl -t mjpeggrab DEVICE=/dev/video0
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "auto"
//
//	[logging.modules]
//	grab = "debug"
//	devices = "warn"
package logging
