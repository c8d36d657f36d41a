// Package logging assembles structured slog loggers and formatting helpers used
// across cuekit.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers that tag log lines with the operation, input source,
// and correlation ID. NewFromConfig tees console output into a JSON log file
// when a log directory is configured. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
