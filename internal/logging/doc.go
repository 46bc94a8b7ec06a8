// Package logging assembles structured slog loggers and formatting helpers used
// across shelfscan.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so lookup code can automatically
// tag log lines with request IDs, barcodes, and stage names. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
