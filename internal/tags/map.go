package tags

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"exifdeck/internal/services"
)

// Entry is one tag of a file.
type Entry struct {
	Key   Key
	Value Value
}

// NewEntry builds an entry from a "Group:Tag" key and a raw value.
func NewEntry(key, raw string) (Entry, error) {
	k, err := ParseKey(key)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: k, Value: ParseValue(raw)}, nil
}

// Map is an insertion-ordered collection of entries keyed by (group, tag).
// The zero Map is empty and ready to use.
type Map struct {
	pairs *orderedmap.OrderedMap[Key, Entry]
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{pairs: orderedmap.New[Key, Entry]()}
}

// FromEntries builds a map preserving the order of entries. A repeated key is
// a ParseError rather than a silent merge.
func FromEntries(entries []Entry) (*Map, error) {
	m := NewMap()
	for _, entry := range entries {
		if err := m.Add(entry); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends an entry and fails if the key is already present.
func (m *Map) Add(entry Entry) error {
	m.init()
	if _, present := m.pairs.Get(entry.Key); present {
		return &services.ParseError{Source: "tags", Detail: fmt.Sprintf("duplicate key %s", entry.Key)}
	}
	m.pairs.Set(entry.Key, entry)
	return nil
}

// Set overwrites an existing entry in place or appends a new one.
func (m *Map) Set(key Key, value Value) {
	m.init()
	m.pairs.Set(key, Entry{Key: key, Value: value})
}

// Get returns the entry stored under key.
func (m *Map) Get(key Key) (Entry, bool) {
	if m == nil || m.pairs == nil {
		return Entry{}, false
	}
	return m.pairs.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key Key) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key Key) bool {
	if m == nil || m.pairs == nil {
		return false
	}
	_, present := m.pairs.Delete(key)
	return present
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Key {
	keys := make([]Key, 0, m.Len())
	if m.Len() == 0 {
		return keys
	}
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, 0, m.Len())
	if m.Len() == 0 {
		return entries
	}
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, pair.Value)
	}
	return entries
}

// Clone returns an independent copy. Values are immutable so a shallow copy of
// each entry is a deep copy of the map.
func (m *Map) Clone() *Map {
	clone := NewMap()
	for _, entry := range m.Entries() {
		clone.pairs.Set(entry.Key, entry)
	}
	return clone
}

func (m *Map) init() {
	if m.pairs == nil {
		m.pairs = orderedmap.New[Key, Entry]()
	}
}
