package tags

import (
	"fmt"
	"strings"
)

// Key identifies a tag within a file. Identical tag names in different
// groups (EXIF:DateTimeOriginal vs XMP:DateTimeOriginal) are distinct keys.
type Key struct {
	Group string
	Name  string
}

// NewKey builds a key from its parts.
func NewKey(group, name string) Key {
	return Key{Group: strings.TrimSpace(group), Name: strings.TrimSpace(name)}
}

// ParseKey splits "Group:Tag" into a Key. A value without a colon yields a key
// with an empty group.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	group, name, found := strings.Cut(s, ":")
	if !found {
		name, group = group, ""
	}
	key := NewKey(group, name)
	if key.Name == "" {
		return Key{}, fmt.Errorf("tag key %q: missing tag name", s)
	}
	if found && key.Group == "" {
		return Key{}, fmt.Errorf("tag key %q: empty group", s)
	}
	if strings.ContainsAny(key.Name, " \t=") || strings.ContainsAny(key.Group, " \t=") {
		return Key{}, fmt.Errorf("tag key %q: contains whitespace or '='", s)
	}
	return key, nil
}

// MustParseKey is ParseKey for literals known to be valid.
func MustParseKey(s string) Key {
	key, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return key
}

// String renders the key in the tool's "Group:Tag" notation.
func (k Key) String() string {
	if k.Group == "" {
		return k.Name
	}
	return k.Group + ":" + k.Name
}

// ParseKeys parses a list of "Group:Tag" strings, stopping at the first error.
func ParseKeys(values []string) ([]Key, error) {
	keys := make([]Key, 0, len(values))
	for _, value := range values {
		key, err := ParseKey(value)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// EqualFold reports whether k and other name the same tag ignoring case, the
// way the tool matches group and tag names.
func (k Key) EqualFold(other Key) bool {
	return strings.EqualFold(k.Group, other.Group) && strings.EqualFold(k.Name, other.Name)
}

// readOnlyGroups are reported by the tool but never written: file system
// properties, tool diagnostics, and values derived from other tags.
var readOnlyGroups = map[string]struct{}{
	"exiftool":  {},
	"file":      {},
	"system":    {},
	"composite": {},
}

// ReadOnly reports whether the key belongs to a group the tool cannot write.
func (k Key) ReadOnly() bool {
	_, ok := readOnlyGroups[strings.ToLower(k.Group)]
	return ok
}
