// Package logging assembles structured slog loggers and formatting helpers used
// across cdrip.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scanner and CLI code can tag
// log lines with the device under inspection and a correlation ID. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
