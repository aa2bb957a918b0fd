package tagdict_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"exifdeck/internal/services"
	"exifdeck/internal/tagdict"
	"exifdeck/internal/tags"
)

const sample = `{"groups": {"EXIF": ["Artist", "DateTimeOriginal"], "XMP": ["Rating"]}}`

func TestLoadAndKnown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	dict, err := tagdict.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dict.Source() != path {
		t.Fatalf("Source = %q", dict.Source())
	}

	cases := map[string]bool{
		"EXIF:Artist":          true,
		"exif:artist":          true,
		"XMP:Rating":           true,
		"Rating":               true,
		"IPTC:Keywords":        false,
		"EXIF:Rating":          false,
		"Keywords":             false,
		"XMP:DateTimeOriginal": false,
	}
	for raw, want := range cases {
		if got := dict.Known(tags.MustParseKey(raw)); got != want {
			t.Errorf("Known(%s) = %v, want %v", raw, got, want)
		}
	}
	if got := dict.Groups(); len(got) != 2 || got[0] != "exif" || got[1] != "xmp" {
		t.Fatalf("Groups = %v", got)
	}
}

func TestCheckReportsUnknownTagsInOrder(t *testing.T) {
	dict := tagdict.New(map[string][]string{"EXIF": {"Artist"}})
	keys := []tags.Key{
		tags.MustParseKey("EXIF:Artist"),
		tags.MustParseKey("EXIF:Bogus"),
		tags.MustParseKey("XMP:Label"),
	}
	errs := dict.Check(keys)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	for _, err := range errs {
		if !errors.Is(err, services.ErrUnknownTag) {
			t.Fatalf("expected ErrUnknownTag, got %v", err)
		}
	}
}

func TestNilDictionaryAcceptsEverything(t *testing.T) {
	var dict *tagdict.Dictionary
	if !dict.Known(tags.MustParseKey("Any:Thing")) {
		t.Fatal("nil dictionary should accept every key")
	}
}

func TestParseRejectsMalformedDictionaries(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"groups":`,
		"missing groups": `{}`,
		"unknown field":  `{"groups": {}, "extra": 1}`,
		"non-string tag": `{"groups": {"EXIF": [1]}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tagdict.Parse([]byte(input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
