// Package tagjson reads and writes the JSON array format shared by the
// external tool's "-j" output and the export/import files: an array of flat
// objects, each with a SourceFile field and "Group:Tag" keys.
//
// Decoding keeps the key order of every object and rejects repeated keys,
// which encoding/json would silently merge.
package tagjson
