// Package batch runs one operation across many files with bounded
// concurrency.
//
// Each file goes through Extract, the operation, Diff, Write and Commit on a
// single worker. A failing file is recorded and never stops the others.
// Cancellation is cooperative: no file is dispatched once a cancel has been
// observed, while files already in flight run to completion so a write is
// never interrupted halfway. Files never dispatched are recorded as
// cancelled.
//
// The only condition that aborts a job before any dispatch is a missing
// exiftool binary, detected by probing the adapter in Start.
package batch
