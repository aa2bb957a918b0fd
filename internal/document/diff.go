package document

import "exifdeck/internal/tags"

// ChangeKind classifies one entry of a Diff.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes how one key differs from the baseline. Old is unset for
// Added, New is unset for Removed.
type Change struct {
	Key  tags.Key
	Kind ChangeKind
	Old  tags.Value
	New  tags.Value
}

// Diff lists changes: additions and modifications in working-copy order,
// followed by removals in baseline order.
type Diff []Change

// Empty reports whether nothing changed.
func (d Diff) Empty() bool { return len(d) == 0 }

// Count returns how many changes have the given kind.
func (d Diff) Count(kind ChangeKind) int {
	n := 0
	for _, c := range d {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Keys returns the changed keys in diff order.
func (d Diff) Keys() []tags.Key {
	keys := make([]tags.Key, len(d))
	for i, c := range d {
		keys[i] = c.Key
	}
	return keys
}

// Find returns the change for key.
func (d Diff) Find(key tags.Key) (Change, bool) {
	for _, c := range d {
		if c.Key == key {
			return c, true
		}
	}
	return Change{}, false
}
