// Package logging assembles structured slog loggers and formatting helpers used
// across lexcurate commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so operations can tag log lines
// with the run ID, the operation name, and the cognate set being touched. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
