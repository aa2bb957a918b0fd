// Package logging assembles the structured slog loggers used across exifdeck.
//
// It owns the console and JSON handlers, resolves level and output plumbing
// from configuration, and exposes context-aware helpers so batch code tags
// every line with the job ID, file, and operation it belongs to. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
