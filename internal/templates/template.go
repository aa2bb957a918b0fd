package templates

import (
	"fmt"
	"strings"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// Assignment is one template entry.
type Assignment struct {
	Key   tags.Key
	Value tags.Value
}

// Template is a named ordered set of assignments, independent of any document.
type Template struct {
	Name    string
	Entries []Assignment
}

// New builds a template, rejecting an empty name and repeated keys.
func New(name string, entries []Assignment) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "templates", "new", "template name is required", nil)
	}
	seen := make(map[tags.Key]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Key]; dup {
			return nil, services.Wrap(services.ErrValidation, "templates", "new",
				fmt.Sprintf("template %q assigns %s more than once", name, entry.Key), nil)
		}
		seen[entry.Key] = struct{}{}
	}
	return &Template{Name: name, Entries: append([]Assignment(nil), entries...)}, nil
}

// Keys returns the assigned keys in order.
func (t *Template) Keys() []tags.Key {
	keys := make([]tags.Key, 0, len(t.Entries))
	for _, entry := range t.Entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Apply overwrites doc's working copy with every template entry, in order,
// and returns the number of entries applied. Keys are matched against the
// document ignoring case. Tags the template does not name
// are left alone. It never contacts the external tool.
func Apply(t *Template, doc *document.Document) int {
	if t == nil || doc == nil {
		return 0
	}
	for _, entry := range t.Entries {
		doc.SetTag(doc.Resolve(entry.Key), entry.Value)
	}
	return len(t.Entries)
}

// Save captures the current values of keys from doc as a new template. With
// no keys every writable text tag is captured; read-only groups and binary
// placeholders are skipped. Naming a binary tag explicitly is an error.
func Save(name string, doc *document.Document, keys []tags.Key) (*Template, error) {
	var entries []Assignment
	if len(keys) == 0 {
		for _, entry := range doc.Entries() {
			if entry.Key.ReadOnly() || entry.Value.Kind() == tags.KindBinary {
				continue
			}
			entries = append(entries, Assignment{Key: entry.Key, Value: entry.Value})
		}
		return New(name, entries)
	}

	var missing, binary []string
	for _, key := range keys {
		entry, ok := doc.Tag(key)
		if !ok {
			missing = append(missing, key.String())
			continue
		}
		if entry.Value.Kind() == tags.KindBinary {
			binary = append(binary, key.String())
			continue
		}
		entries = append(entries, Assignment{Key: entry.Key, Value: entry.Value})
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrValidation, "templates", "save",
			fmt.Sprintf("%s has no tag %s", doc.Path(), strings.Join(missing, ", ")), nil)
	}
	if len(binary) > 0 {
		return nil, services.Wrap(services.ErrValidation, "templates", "save",
			fmt.Sprintf("%s holds binary data that cannot be captured as text", strings.Join(binary, ", ")), nil)
	}
	return New(name, entries)
}
