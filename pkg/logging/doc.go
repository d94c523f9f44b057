// Package logging provides structured logging utilities for disksnap.
//
// # Overview
//
// This package wraps the standard library slog package with the defaults used by
// every disksnap command: JSON records on stderr, a module/version context on each
// record, and source locations when running at debug level. Human-readable progress
// lines (snapshot creation and pruning timings) are written to stdout by the
// snapshotter and are not routed through this package.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Azure request details, credential chain attempts, source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Credential sources that were skipped, partial delete failures
//   - ERROR: Failures that abort the run
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("disksnap", version, "info")
//	    slog.Info("creating snapshot", "disk", diskID)
//	}
//
// # Environment Configuration
//
// When no level is given explicitly, LOG_LEVEL controls verbosity:
//
//	LOG_LEVEL=debug disksnap create -t <tenant> -s <sub> -g rg -n disk
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "snapshot created",
//	    "module": "disksnap",
//	    "version": "v1.0.0",
//	    "run_id": "4a1c0a9e-5a0e-4a8e-9c55-0d1a3c1c2f10"
//	}
package logging
