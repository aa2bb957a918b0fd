// Package jobstore keeps a history of batch jobs and their per-file results
// in SQLite.
//
// The batch engine records a Snapshot when a job starts and again when it
// finishes; the CLI reads the history back for "jobs list" and "jobs show".
// History is advisory: a job still runs when recording fails. Old jobs are
// removed by Prune according to the configured retention.
//
// Schema changes bump schemaVersion in schema.go; users delete jobs.db to
// adopt a new schema.
package jobstore
