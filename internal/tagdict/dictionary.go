// Package tagdict checks tag keys against a dictionary of known tags before
// they are written.
//
// The dictionary is a JSON document mapping group names to tag names:
//
//	{"groups": {"EXIF": ["Artist", "Copyright"], "XMP": ["Rating"]}}
//
// Lookups ignore case, as exiftool does for tag and group names.
package tagdict

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"exifdeck/internal/schema"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

var dictionarySchema = schema.MustCompile("tag dictionary", `{
  "type": "object",
  "required": ["groups"],
  "additionalProperties": false,
  "properties": {
    "groups": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string", "minLength": 1}
      }
    }
  }
}`)

// Dictionary is an immutable set of known tags, grouped by family.
type Dictionary struct {
	groups map[string]map[string]struct{}
	source string
}

type dictionaryFile struct {
	Groups map[string][]string `json:"groups"`
}

// Load reads and validates a dictionary file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tag dictionary: %w", err)
	}
	dict, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tag dictionary %s: %w", path, err)
	}
	dict.source = path
	return dict, nil
}

// Parse builds a dictionary from its JSON form.
func Parse(data []byte) (*Dictionary, error) {
	if err := dictionarySchema.Validate(data); err != nil {
		return nil, err
	}
	var file dictionaryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &services.ParseError{Source: "tag dictionary", Detail: "decode", Err: err}
	}
	return New(file.Groups), nil
}

// New builds a dictionary from group -> tag names.
func New(groups map[string][]string) *Dictionary {
	dict := &Dictionary{groups: make(map[string]map[string]struct{}, len(groups))}
	for group, names := range groups {
		g := strings.ToLower(strings.TrimSpace(group))
		set := dict.groups[g]
		if set == nil {
			set = make(map[string]struct{}, len(names))
			dict.groups[g] = set
		}
		for _, name := range names {
			set[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
		}
	}
	return dict
}

// Source returns the file the dictionary was loaded from, if any.
func (d *Dictionary) Source() string { return d.source }

// Groups lists the known groups in sorted order.
func (d *Dictionary) Groups() []string {
	out := make([]string, 0, len(d.groups))
	for g := range d.groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Known reports whether key names a tag in the dictionary. A key without a
// group matches the name in any group.
func (d *Dictionary) Known(key tags.Key) bool {
	if d == nil {
		return true
	}
	name := strings.ToLower(key.Name)
	if key.Group == "" {
		for _, set := range d.groups {
			if _, ok := set[name]; ok {
				return true
			}
		}
		return false
	}
	set, ok := d.groups[strings.ToLower(key.Group)]
	if !ok {
		return false
	}
	_, ok = set[name]
	return ok
}

// Check returns one ErrUnknownTag error per key missing from the dictionary,
// in input order.
func (d *Dictionary) Check(keys []tags.Key) []error {
	var errs []error
	for _, key := range keys {
		if d.Known(key) {
			continue
		}
		errs = append(errs, services.Wrap(services.ErrUnknownTag, "tagdict", "check", key.String(), nil))
	}
	return errs
}
