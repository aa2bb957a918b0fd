// Package document holds one file's tag set: the baseline read from disk and
// the working copy being edited.
//
// The baseline never changes after Load except through Commit, which is only
// called once the tool has confirmed a write. Diff compares the two sets by
// normalized value so format-only differences never produce a write.
package document
