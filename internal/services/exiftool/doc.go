// Package exiftool is the only boundary to the external exiftool binary.
//
// Client.Extract runs "exiftool -j -G -s -sep ', ' -- <file>" and decodes the
// ordered, group-qualified tags; Client.Write turns a document.Diff into one
// "-Group:Tag=value" invocation per file, using "-Group:Tag=" for deletions.
// Every call runs under a timeout; on expiry the whole process group is
// killed and the call fails with a timeout ToolInvocationError.
//
// The package never interprets tag semantics. Tests substitute an Executor to
// avoid spawning processes.
package exiftool
