package batch_test

import (
	"context"
	"errors"
	"testing"

	"exifdeck/internal/batch"
	"exifdeck/internal/dateshift"
	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tagjson"
	"exifdeck/internal/tags"
	"exifdeck/internal/templates"
)

func loadDoc(t *testing.T, path string, pairs ...string) *document.Document {
	t.Helper()
	var entries []tags.Entry
	for i := 0; i < len(pairs); i += 2 {
		entry, err := tags.NewEntry(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, entry)
	}
	doc, err := document.Load(path, entries)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestClearOpKeepsReadOnlyGroups(t *testing.T) {
	doc := loadDoc(t, "a.jpg",
		"File:FileName", "a.jpg",
		"EXIF:Artist", "Bob",
		"XMP:Rating", "3",
		"Composite:ImageSize", "10x10",
	)
	if _, err := (batch.ClearOp{}).Apply(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	diff := doc.Diff()
	if diff.Count(document.Removed) != 2 || len(diff) != 2 {
		t.Fatalf("unexpected diff %+v", diff)
	}
	if _, ok := doc.Tag(tags.MustParseKey("File:FileName")); !ok {
		t.Fatal("read-only tag removed")
	}
}

func TestEditOpSetsAndRemoves(t *testing.T) {
	doc := loadDoc(t, "a.jpg", "EXIF:Artist", "Bob", "XMP:Rating", "3")
	op := batch.EditOp{
		Set: []templates.Assignment{
			{Key: tags.MustParseKey("EXIF:Copyright"), Value: tags.ParseValue("(c) Bob")},
			{Key: tags.MustParseKey("File:FileName"), Value: tags.ParseValue("x.jpg")},
		},
		Remove: []tags.Key{tags.MustParseKey("XMP:Rating"), tags.MustParseKey("IPTC:Keywords")},
	}
	warnings, err := op.Apply(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected read-only and missing-key warnings, got %v", warnings)
	}
	diff := doc.Diff()
	if diff.Count(document.Added) != 1 || diff.Count(document.Removed) != 1 {
		t.Fatalf("unexpected diff %+v", diff)
	}
}

func TestEditOpMatchesKeysIgnoringCase(t *testing.T) {
	doc := loadDoc(t, "a.jpg", "EXIF:Artist", "Bob", "XMP:Rating", "3")
	op := batch.EditOp{
		Set:    []templates.Assignment{{Key: tags.MustParseKey("exif:artist"), Value: tags.ParseValue("Alice")}},
		Remove: []tags.Key{tags.MustParseKey("xmp:rating")},
	}
	warnings, err := op.Apply(context.Background(), doc)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("warnings=%v err=%v", warnings, err)
	}
	diff := doc.Diff()
	if diff.Count(document.Modified) != 1 || diff.Count(document.Removed) != 1 || diff.Count(document.Added) != 0 {
		t.Fatalf("unexpected diff %+v", diff)
	}
	if diff[0].Key.String() != "EXIF:Artist" {
		t.Fatalf("modified key spelled %s", diff[0].Key)
	}
}

func TestShiftOpNamesDelta(t *testing.T) {
	op := batch.ShiftOp{Delta: parseDelta(t, "+1d2h")}
	if op.Name() != "shift +1d2h" {
		t.Fatalf("Name = %q", op.Name())
	}
}

func TestShiftOpRejectsOversizedDelta(t *testing.T) {
	doc := loadDoc(t, "a.jpg", "EXIF:DateTimeOriginal", "2024:01:01 10:00:00")
	op := batch.ShiftOp{Delta: dateshift.Delta{Days: 110000}}
	if _, err := op.Apply(context.Background(), doc); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !doc.Diff().Empty() {
		t.Fatalf("document changed: %+v", doc.Diff())
	}
}

func TestShiftOpReportsUnchangedDateOnlyValues(t *testing.T) {
	doc := loadDoc(t, "a.jpg", "XMP:DateCreated", "2024:01:01", "EXIF:DateTimeOriginal", "2024:01:01 10:00:00")
	op := batch.ShiftOp{Delta: parseDelta(t, "+3h")}
	warnings, err := op.Apply(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one precision warning, got %v", warnings)
	}
	if len(doc.Diff()) != 1 {
		t.Fatalf("only the full timestamp should move: %+v", doc.Diff())
	}
}

func TestImportOpOverlaysMatchingRecord(t *testing.T) {
	records, err := tagjson.Decode([]byte(`[
  {"SourceFile": "/photos/a.jpg", "EXIF:Artist": "Alice", "File:FileSize": "1 kB"},
  {"SourceFile": "/photos/other.jpg", "EXIF:Artist": "Eve"}
]`), "edits.json")
	if err != nil {
		t.Fatal(err)
	}
	op := batch.NewImportOp("edits.json", records)
	if got := op.Paths(); len(got) != 2 || got[0] != "/photos/a.jpg" {
		t.Fatalf("Paths = %v", got)
	}

	doc := loadDoc(t, "/photos/a.jpg", "EXIF:Artist", "Bob")
	warnings, err := op.Apply(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected read-only warning, got %v", warnings)
	}
	entry, _ := doc.Tag(tags.MustParseKey("EXIF:Artist"))
	if entry.Value.Raw() != "Alice" {
		t.Fatalf("artist = %q", entry.Value.Raw())
	}

	untouched := loadDoc(t, "/photos/b.jpg", "EXIF:Artist", "Bob")
	if _, err := op.Apply(context.Background(), untouched); err != nil {
		t.Fatal(err)
	}
	if !untouched.Diff().Empty() {
		t.Fatal("file without a record must stay unchanged")
	}
}

func TestTemplateOpRequiresTemplate(t *testing.T) {
	_, err := (batch.TemplateOp{}).Apply(context.Background(), loadDoc(t, "a.jpg"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func parseDelta(t *testing.T, s string) dateshift.Delta {
	t.Helper()
	d, err := dateshift.ParseDelta(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
