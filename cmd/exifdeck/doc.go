// Package main hosts the exifdeck CLI entrypoint and command graph.
//
// The Cobra-based command tree reads tags from files, runs batch edits
// (templates, clear, date shift, explicit set/remove, JSON import) through the
// batch engine, manages the template store, and shows job history. It
// centralizes configuration resolution, logger construction and exiftool
// discovery so subcommands only describe what to do.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through a command or flag.
package main
