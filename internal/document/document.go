package document

import (
	"exifdeck/internal/tags"
)

// Document is the in-memory view of one file's metadata. It is not safe for
// concurrent use; the batch engine gives each worker its own Document.
type Document struct {
	path     string
	original *tags.Map
	current  *tags.Map
}

// Load builds a Document whose baseline and working copy are identical copies
// of entries. Duplicate keys fail with a services.ParseError.
func Load(path string, entries []tags.Entry) (*Document, error) {
	baseline, err := tags.FromEntries(entries)
	if err != nil {
		return nil, err
	}
	return &Document{path: path, original: baseline, current: baseline.Clone()}, nil
}

// Path returns the file path the document was loaded from.
func (d *Document) Path() string { return d.path }

// SetTag inserts or overwrites a working-copy entry. New keys are appended;
// existing keys keep their position. No tag semantics are checked here.
func (d *Document) SetTag(key tags.Key, value tags.Value) {
	d.current.Set(key, value)
}

// Resolve maps a user-supplied key onto the spelling the document already
// uses. An exact match wins; otherwise the first case-insensitive match in the
// working copy, then in the baseline. Unknown keys are returned unchanged.
func (d *Document) Resolve(key tags.Key) tags.Key {
	if d.current.Has(key) {
		return key
	}
	for _, m := range []*tags.Map{d.current, d.original} {
		for _, existing := range m.Keys() {
			if existing.EqualFold(key) {
				return existing
			}
		}
	}
	return key
}

// RemoveTag deletes key from the working copy. Removing an absent key is a
// no-op.
func (d *Document) RemoveTag(key tags.Key) {
	d.current.Delete(key)
}

// Tag returns the working-copy entry for key.
func (d *Document) Tag(key tags.Key) (tags.Entry, bool) {
	return d.current.Get(key)
}

// OriginalTag returns the baseline entry for key.
func (d *Document) OriginalTag(key tags.Key) (tags.Entry, bool) {
	return d.original.Get(key)
}

// Entries returns the working copy in order.
func (d *Document) Entries() []tags.Entry {
	return d.current.Entries()
}

// OriginalEntries returns the baseline in order.
func (d *Document) OriginalEntries() []tags.Entry {
	return d.original.Entries()
}

// Keys returns the working-copy keys in order.
func (d *Document) Keys() []tags.Key {
	return d.current.Keys()
}

// Len returns the number of working-copy entries.
func (d *Document) Len() int {
	return d.current.Len()
}

// Diff compares the working copy with the baseline. It has no side effects.
func (d *Document) Diff() Diff {
	var diff Diff
	for _, entry := range d.current.Entries() {
		old, ok := d.original.Get(entry.Key)
		switch {
		case !ok:
			diff = append(diff, Change{Key: entry.Key, Kind: Added, New: entry.Value})
		case !old.Value.Equal(entry.Value):
			diff = append(diff, Change{Key: entry.Key, Kind: Modified, Old: old.Value, New: entry.Value})
		}
	}
	for _, entry := range d.original.Entries() {
		if !d.current.Has(entry.Key) {
			diff = append(diff, Change{Key: entry.Key, Kind: Removed, Old: entry.Value})
		}
	}
	return diff
}

// Dirty reports whether the working copy differs from the baseline.
func (d *Document) Dirty() bool {
	return !d.Diff().Empty()
}

// Reset discards every edit.
func (d *Document) Reset() {
	d.current = d.original.Clone()
}

// Commit makes the working copy the new baseline. Call it only after the tool
// confirmed the write.
func (d *Document) Commit() {
	d.original = d.current.Clone()
}
