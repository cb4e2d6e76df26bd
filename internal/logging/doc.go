// Package logging assembles structured slog loggers and formatting helpers used
// across movieshelf.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so every log line from one CLI
// invocation carries the same correlation ID. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
