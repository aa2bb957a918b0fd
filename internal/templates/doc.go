// Package templates implements named, ordered tag assignment sets that can be
// applied to any document, captured from a document's current values, parsed
// from "Group:Tag=Value" text, and persisted in a file-locked JSON store.
package templates
