package templates_test

import (
	"errors"
	"testing"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/services/exiftool"
	"exifdeck/internal/tags"
	"exifdeck/internal/templates"
)

func loadDoc(t *testing.T, pairs ...string) *document.Document {
	t.Helper()
	var entries []tags.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		entry, err := tags.NewEntry(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatalf("entry %q: %v", pairs[i], err)
		}
		entries = append(entries, entry)
	}
	doc, err := document.Load("/photos/a.jpg", entries)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}

func mustTemplate(t *testing.T, name string, pairs ...string) *templates.Template {
	t.Helper()
	var entries []templates.Assignment
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, templates.Assignment{Key: tags.MustParseKey(pairs[i]), Value: tags.ParseValue(pairs[i+1])})
	}
	tpl, err := templates.New(name, entries)
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	return tpl
}

func TestApplyDiffCoversOnlyChangedTemplateKeys(t *testing.T) {
	doc := loadDoc(t,
		"EXIF:Artist", "Alice",
		"EXIF:Copyright", "(c) Alice",
		"XMP:Rating", "3",
		"EXIF:Make", "Canon",
	)
	tpl := mustTemplate(t, "studio",
		"EXIF:Artist", "Alice",      // unchanged
		"EXIF:Copyright", "(c) Bob", // modified
		"XMP:Rating", "3.0",         // numerically equal
		"IPTC:City", "Berlin",       // added
	)

	if n := templates.Apply(tpl, doc); n != 4 {
		t.Fatalf("applied %d entries, want 4", n)
	}

	diff := doc.Diff()
	if len(diff) != 2 {
		t.Fatalf("diff has %d changes, want 2: %+v", len(diff), diff)
	}
	if c, ok := diff.Find(tags.MustParseKey("EXIF:Copyright")); !ok || c.Kind != document.Modified {
		t.Fatalf("copyright change = %+v, %v", c, ok)
	}
	if c, ok := diff.Find(tags.MustParseKey("IPTC:City")); !ok || c.Kind != document.Added {
		t.Fatalf("city change = %+v, %v", c, ok)
	}
	if _, ok := diff.Find(tags.MustParseKey("EXIF:Make")); ok {
		t.Fatal("tag outside the template must not change")
	}
}

func TestApplyOverwritesAndKeepsOrder(t *testing.T) {
	doc := loadDoc(t, "EXIF:Artist", "Alice", "EXIF:Make", "Canon")
	tpl := mustTemplate(t, "x", "IPTC:City", "Berlin", "EXIF:Artist", "Bob")
	templates.Apply(tpl, doc)

	keys := doc.Keys()
	want := []string{"EXIF:Artist", "EXIF:Make", "IPTC:City"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Fatalf("key %d = %s, want %s", i, k, want[i])
		}
	}
	if entry, _ := doc.Tag(tags.MustParseKey("EXIF:Artist")); entry.Value.Raw() != "Bob" {
		t.Fatalf("artist = %q", entry.Value.Raw())
	}
}

func TestApplyNilTemplate(t *testing.T) {
	doc := loadDoc(t, "EXIF:Artist", "Alice")
	if n := templates.Apply(nil, doc); n != 0 {
		t.Fatalf("applied %d", n)
	}
	if !doc.Diff().Empty() {
		t.Fatal("nil template must not change the document")
	}
}

func TestSaveCapturesCurrentValues(t *testing.T) {
	doc := loadDoc(t, "File:FileName", "a.jpg", "EXIF:Artist", "Alice", "XMP:Rating", "3")
	doc.SetTag(tags.MustParseKey("EXIF:Artist"), tags.ParseValue("Carol"))

	tpl, err := templates.Save("picked", doc, []tags.Key{tags.MustParseKey("EXIF:Artist")})
	if err != nil {
		t.Fatal(err)
	}
	if len(tpl.Entries) != 1 || tpl.Entries[0].Value.Raw() != "Carol" {
		t.Fatalf("entries = %+v", tpl.Entries)
	}

	all, err := templates.Save("all", doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Entries) != 2 {
		t.Fatalf("read-only group should be skipped, got %d entries", len(all.Entries))
	}
}

func TestSaveSkipsBinaryPlaceholders(t *testing.T) {
	src := loadDoc(t,
		"EXIF:Artist", "Alice",
		"EXIF:ThumbnailImage", "(Binary data 5120 bytes, use -b option to extract)",
	)
	tpl, err := templates.Save("copy", src, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range tpl.Entries {
		if entry.Value.Kind() == tags.KindBinary {
			t.Fatalf("captured binary entry %s", entry.Key)
		}
	}
	if len(tpl.Entries) != 1 {
		t.Fatalf("entries = %+v", tpl.Entries)
	}

	dst := loadDoc(t,
		"EXIF:Artist", "Bob",
		"EXIF:ThumbnailImage", "(Binary data 4096 bytes, use -b option to extract)",
	)
	templates.Apply(tpl, dst)
	args, err := exiftool.WriteArgs(dst.Diff())
	if err != nil {
		t.Fatalf("write args: %v", err)
	}
	if len(args) != 1 || args[0] != "-EXIF:Artist=Alice" {
		t.Fatalf("args = %q", args)
	}

	_, err = templates.Save("thumb", src, []tags.Key{tags.MustParseKey("EXIF:ThumbnailImage")})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("naming a binary tag should fail validation, got %v", err)
	}
}

func TestSaveMissingKey(t *testing.T) {
	doc := loadDoc(t, "EXIF:Artist", "Alice")
	_, err := templates.Save("x", doc, []tags.Key{tags.MustParseKey("EXIF:Model")})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRejectsInvalidTemplates(t *testing.T) {
	if _, err := templates.New("  ", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty name: %v", err)
	}
	key := tags.MustParseKey("EXIF:Artist")
	_, err := templates.New("dup", []templates.Assignment{{Key: key}, {Key: key}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("duplicate key: %v", err)
	}
}
