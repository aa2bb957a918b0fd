// Package services defines shared utilities consumed by the batch engine and
// the external tool integration.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, file paths, and operation names for
//     logging.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified consistently (tool missing, timeout, parse error, ...).
//   - The typed errors raised at the external tool boundary.
package services
